package rpc

import (
	"encoding/hex"
	"net/http"
	"strconv"

	"fizzdex/native/htlc"
)

type atomicSwapInitiateParams struct {
	Initiator   string `json:"initiator"`
	Participant string `json:"participant"`
	Asset       string `json:"asset"`
	Amount      string `json:"amount"`
	SecretHash  string `json:"secretHash"`
	Timelock    int64  `json:"timelock"`
}

type atomicSwapCompleteParams struct {
	Caller string `json:"caller"`
	ID     string `json:"id"`
	Secret string `json:"secret"`
}

type atomicSwapRefundParams struct {
	Caller string `json:"caller"`
	ID     string `json:"id"`
}

type atomicSwapGetParams struct {
	ID string `json:"id"`
}

type atomicSwapJSON struct {
	ID          string `json:"id"`
	Initiator   string `json:"initiator"`
	Participant string `json:"participant"`
	Asset       string `json:"asset"`
	EscrowVault string `json:"escrowVault"`
	Amount      string `json:"amount"`
	SecretHash  string `json:"secretHash"`
	Timelock    int64  `json:"timelock"`
	Completed   bool   `json:"completed"`
	Refunded    bool   `json:"refunded"`
}

func atomicSwapToJSON(swap *htlc.AtomicSwap) atomicSwapJSON {
	return atomicSwapJSON{
		ID:          hex.EncodeToString(swap.ID[:]),
		Initiator:   formatAddress(swap.Initiator),
		Participant: formatAddress(swap.Participant),
		Asset:       swap.Asset,
		EscrowVault: formatAddress(swap.EscrowVault),
		Amount:      strconv.FormatUint(swap.Amount, 10),
		SecretHash:  hex.EncodeToString(swap.SecretHash[:]),
		Timelock:    swap.Timelock,
		Completed:   swap.Completed,
		Refunded:    swap.Refunded,
	}
}

func (s *Server) handleAtomicSwapInitiate(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params atomicSwapInitiateParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	initiator, err := parseAddress(params.Initiator)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	participant, err := parseAddress(params.Participant)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	amount, err := parseAmount(params.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	secretHash, err := parseHash32(params.SecretHash)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	swap, err := s.node.AtomicSwapInitiate(initiator, participant, params.Asset, amount, secretHash, params.Timelock)
	if err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, atomicSwapToJSON(swap))
}

func (s *Server) handleAtomicSwapComplete(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params atomicSwapCompleteParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	id, err := parseHash32(params.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	secret, err := hex.DecodeString(params.Secret)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", "secret must be hex encoded")
		return
	}
	if err := s.node.AtomicSwapComplete(caller, id, secret); err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]bool{"completed": true})
}

func (s *Server) handleAtomicSwapRefund(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params atomicSwapRefundParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	id, err := parseHash32(params.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.node.AtomicSwapRefund(caller, id); err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]bool{"refunded": true})
}

func (s *Server) handleAtomicSwapGet(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params atomicSwapGetParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	id, err := parseHash32(params.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	swap, err := s.node.AtomicSwapGet(id)
	if err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, atomicSwapToJSON(swap))
}
