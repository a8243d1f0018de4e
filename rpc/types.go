package rpc

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"fizzdex/core/state"
	"fizzdex/crypto"
	"fizzdex/native/amm"
	"fizzdex/native/htlc"
	"fizzdex/native/market"
	"fizzdex/native/rewards"
)

const (
	codeModuleInvalidParams = -32021
	codeModuleNotFound      = -32022
	codeModuleForbidden     = -32023
	codeModuleConflict      = -32024
	codeModuleInternal      = -32025
)

func decodeSingleParam(req *RPCRequest, out interface{}) error {
	if len(req.Params) != 1 {
		return fmt.Errorf("exactly one parameter object expected")
	}
	return json.Unmarshal(req.Params[0], out)
}

func parseAddress(value string) ([20]byte, error) {
	var out [20]byte
	addr, err := crypto.DecodeAddress(strings.TrimSpace(value))
	if err != nil {
		return out, err
	}
	copy(out[:], addr.Bytes())
	return out, nil
}

func formatAddress(addr [20]byte) string {
	return crypto.NewAddress(crypto.FDXPrefix, addr[:]).String()
}

func parseAmount(value string) (uint64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("amount must not be empty")
	}
	amount, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount: %w", err)
	}
	return amount, nil
}

func parseHash32(value string) ([32]byte, error) {
	var out [32]byte
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "0x")
	decoded, err := hex.DecodeString(trimmed)
	if err != nil {
		return out, fmt.Errorf("invalid hex: %w", err)
	}
	if len(decoded) != 32 {
		return out, fmt.Errorf("expected 32 bytes, got %d", len(decoded))
	}
	copy(out[:], decoded)
	return out, nil
}

// writeModuleError maps engine sentinel errors onto JSON-RPC error codes so
// every failure kind surfaces verbatim to the caller.
func writeModuleError(w http.ResponseWriter, id interface{}, err error) {
	switch {
	case errors.Is(err, amm.ErrPoolNotFound),
		errors.Is(err, htlc.ErrNotFound),
		errors.Is(err, rewards.ErrPlayerNotFound),
		errors.Is(err, market.ErrNotInitialized):
		writeError(w, http.StatusNotFound, id, codeModuleNotFound, "not_found", err.Error())
	case errors.Is(err, market.ErrUnauthorized),
		errors.Is(err, htlc.ErrUnauthorized),
		errors.Is(err, state.ErrMintUnauthorized):
		writeError(w, http.StatusForbidden, id, codeModuleForbidden, "forbidden", err.Error())
	case errors.Is(err, amm.ErrPoolExists),
		errors.Is(err, htlc.ErrSwapExists),
		errors.Is(err, market.ErrAlreadyInitialized),
		errors.Is(err, htlc.ErrAlreadyCompleted),
		errors.Is(err, htlc.ErrAlreadyRefunded):
		writeError(w, http.StatusConflict, id, codeModuleConflict, "conflict", err.Error())
	case errors.Is(err, amm.ErrPaused),
		errors.Is(err, amm.ErrPoolLocked),
		errors.Is(err, amm.ErrInvalidAmount),
		errors.Is(err, amm.ErrSlippage),
		errors.Is(err, amm.ErrInsufficientLiquidity),
		errors.Is(err, amm.ErrOverflow),
		errors.Is(err, amm.ErrUnderflow),
		errors.Is(err, amm.ErrDivisionByZero),
		errors.Is(err, market.ErrFeeTooHigh),
		errors.Is(err, market.ErrInvalidAsset),
		errors.Is(err, htlc.ErrInvalidAmount),
		errors.Is(err, htlc.ErrInvalidTimelock),
		errors.Is(err, htlc.ErrInvalidSecret),
		errors.Is(err, htlc.ErrTimelockNotExpired),
		errors.Is(err, rewards.ErrInvalidNumber),
		errors.Is(err, rewards.ErrCooldownActive),
		errors.Is(err, rewards.ErrNoRewards),
		errors.Is(err, rewards.ErrOverflow),
		errors.Is(err, state.ErrInsufficientBalance),
		errors.Is(err, state.ErrBalanceOverflow):
		writeError(w, http.StatusBadRequest, id, codeModuleInvalidParams, "precondition_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, id, codeModuleInternal, "internal_error", err.Error())
	}
}
