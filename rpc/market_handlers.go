package rpc

import (
	"net/http"
)

type marketInitializeParams struct {
	Authority   string `json:"authority"`
	RewardAsset string `json:"rewardAsset"`
	FeeBps      uint32 `json:"feeBps"`
}

type marketSetPauseParams struct {
	Caller string `json:"caller"`
	Paused bool   `json:"paused"`
}

type marketJSON struct {
	Authority    string `json:"authority"`
	RewardAsset  string `json:"rewardAsset"`
	FeeBps       uint32 `json:"feeBps"`
	TotalVolume  string `json:"totalVolume"`
	TotalPlayers uint64 `json:"totalPlayers"`
	Paused       bool   `json:"paused"`
}

func (s *Server) handleMarketInitialize(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params marketInitializeParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	authority, err := parseAddress(params.Authority)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	stateRecord, err := s.node.MarketInitialize(authority, params.RewardAsset, params.FeeBps)
	if err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, marketJSON{
		Authority:    formatAddress(stateRecord.Authority),
		RewardAsset:  stateRecord.RewardAsset,
		FeeBps:       stateRecord.FeeBps,
		TotalVolume:  stateRecord.TotalVolume.String(),
		TotalPlayers: stateRecord.TotalPlayers,
		Paused:       stateRecord.Paused,
	})
}

func (s *Server) handleMarketSetPause(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params marketSetPauseParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.node.MarketSetPause(caller, params.Paused); err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]bool{"paused": params.Paused})
}

func (s *Server) handleMarketGet(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	stateRecord, err := s.node.MarketGet()
	if err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, marketJSON{
		Authority:    formatAddress(stateRecord.Authority),
		RewardAsset:  stateRecord.RewardAsset,
		FeeBps:       stateRecord.FeeBps,
		TotalVolume:  stateRecord.TotalVolume.String(),
		TotalPlayers: stateRecord.TotalPlayers,
		Paused:       stateRecord.Paused,
	})
}
