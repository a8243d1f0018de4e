package rpc

import (
	"net/http"
	"strconv"

	"fizzdex/native/amm"
)

type createPoolParams struct {
	AssetA string `json:"assetA"`
	AssetB string `json:"assetB"`
}

type addLiquidityParams struct {
	Caller      string `json:"caller"`
	AssetA      string `json:"assetA"`
	AssetB      string `json:"assetB"`
	AmountA     string `json:"amountA"`
	AmountB     string `json:"amountB"`
	MinLPAmount string `json:"minLpAmount"`
}

type swapParams struct {
	Caller       string `json:"caller"`
	AssetA       string `json:"assetA"`
	AssetB       string `json:"assetB"`
	AmountIn     string `json:"amountIn"`
	MinAmountOut string `json:"minAmountOut"`
	AToB         bool   `json:"aToB"`
}

type poolJSON struct {
	AssetA        string `json:"assetA"`
	AssetB        string `json:"assetB"`
	VaultA        string `json:"vaultA"`
	VaultB        string `json:"vaultB"`
	LPMint        string `json:"lpMint"`
	ReserveA      string `json:"reserveA"`
	ReserveB      string `json:"reserveB"`
	TotalLPSupply string `json:"totalLpSupply"`
}

func poolToJSON(pool *amm.Pool) poolJSON {
	return poolJSON{
		AssetA:        pool.AssetA,
		AssetB:        pool.AssetB,
		VaultA:        formatAddress(pool.VaultA),
		VaultB:        formatAddress(pool.VaultB),
		LPMint:        pool.LPMint,
		ReserveA:      strconv.FormatUint(pool.ReserveA, 10),
		ReserveB:      strconv.FormatUint(pool.ReserveB, 10),
		TotalLPSupply: strconv.FormatUint(pool.TotalLPSupply, 10),
	}
}

func (s *Server) handleCreatePool(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params createPoolParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	pool, err := s.node.CreatePool(params.AssetA, params.AssetB)
	if err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, poolToJSON(pool))
}

func (s *Server) handleAddLiquidity(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params addLiquidityParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	amountA, err := parseAmount(params.AmountA)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	amountB, err := parseAmount(params.AmountB)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	minLP := uint64(0)
	if params.MinLPAmount != "" {
		if minLP, err = parseAmount(params.MinLPAmount); err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
			return
		}
	}
	minted, err := s.node.AddLiquidity(caller, params.AssetA, params.AssetB, amountA, amountB, minLP)
	if err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"minted": strconv.FormatUint(minted, 10)})
}

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	var params swapParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	amountIn, err := parseAmount(params.AmountIn)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	minOut := uint64(0)
	if params.MinAmountOut != "" {
		if minOut, err = parseAmount(params.MinAmountOut); err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
			return
		}
	}
	amountOut, err := s.node.Swap(caller, params.AssetA, params.AssetB, amountIn, minOut, params.AToB)
	if err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]string{"amountOut": strconv.FormatUint(amountOut, 10)})
}

func (s *Server) handleGetPool(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params createPoolParams
	if err := decodeSingleParam(req, &params); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeModuleInvalidParams, "invalid_params", err.Error())
		return
	}
	pool, err := s.node.GetPool(params.AssetA, params.AssetB)
	if err != nil {
		writeModuleError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, poolToJSON(pool))
}
