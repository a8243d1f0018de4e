package rpc

import (
	"net/http"
	"strconv"

	"fizzdex/native/rewards"
)

type rewardsPlayParams struct {
	Player string `json:"player"`
	Number uint8  `json:"number"`
}

type rewardsPlayerParams struct {
	Player string `json:"player"`
}

type playerJSON struct {
	TotalPlays     uint64 `json:"totalPlays"`
	FizzCount      uint32 `json:"fizzCount"`
	BuzzCount      uint32 `json:"buzzCount"`
	FizzBuzzCount  uint32 `json:"fizzBuzzCount"`
	PendingRewards string `json:"pendingRewards"`
	TotalClaimed   string `json:"totalClaimed"`
	LastPlayTime   int64  `json:"lastPlayTime"`
}

func playerToJSON(player *rewards.PlayerState) playerJSON {
	return playerJSON{
		TotalPlays:     player.TotalPlays,
		FizzCount:      player.FizzCount,
		BuzzCount:      player.BuzzCount,
		FizzBuzzCount:  player.FizzBuzzCount,
		PendingRewards: strconv.FormatUint(player.PendingRewards, 10),
		TotalClaimed:   strconv.FormatUint(player.TotalClaimed, 10),
		LastPlayTime:   player.LastPlayTime,
	}
}

func (s *Server) handleRewardsPlay(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params rewardsPlayParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	player, err := parseAddress(params.Player)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	tier, reward, err := s.node.RewardsPlay(player, params.Number)
	if err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]string{
		"tier":   tier,
		"reward": strconv.FormatUint(reward, 10),
	})
}

func (s *Server) handleRewardsClaim(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params rewardsPlayerParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	player, err := parseAddress(params.Player)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	claimed, err := s.node.RewardsClaim(player)
	if err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"claimed": strconv.FormatUint(claimed, 10)})
}

func (s *Server) handleRewardsGetPlayer(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params rewardsPlayerParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	player, err := parseAddress(params.Player)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	state, err := s.node.RewardsGetPlayer(player)
	if err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, playerToJSON(state))
}
