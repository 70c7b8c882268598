package rpc

import (
	"github.com/Klingon-tech/klingnet-tokens/internal/service"
	"github.com/Klingon-tech/klingnet-tokens/internal/token"
	"github.com/Klingon-tech/klingnet-tokens/pkg/tx"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeNotFound       = -32000
	CodeTxRejected     = -32001
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      interface{} `json:"id"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ── Param types ─────────────────────────────────────────────────────────

// SymbolParam is used by token_get.
type SymbolParam struct {
	Symbol string `json:"symbol"`
}

// HashParam is used by endpoints that take a single hash.
type HashParam struct {
	Hash string `json:"hash"`
}

// TxSubmitParam is used by tx_submit.
type TxSubmitParam struct {
	Transaction *tx.Transaction `json:"transaction"`
}

// Identity kinds accepted by identity_derive.
const (
	IdentityAccount = "account"
	IdentityToken   = "token"
)

// IdentityDeriveParam is used by identity_derive. Account uses PublicKey;
// token uses OwnerID and Symbol.
type IdentityDeriveParam struct {
	Kind      string `json:"kind"`
	PublicKey string `json:"public_key,omitempty"`
	OwnerID   string `json:"owner_id,omitempty"`
	Symbol    string `json:"symbol"`
}

// ── Result types ────────────────────────────────────────────────────────

// TokenResult describes one token.
type TokenResult struct {
	Symbol       string `json:"symbol"`
	Owner        string `json:"owner"`
	OwnerAddress string `json:"owner_address"`
	Address      string `json:"address"`
}

// NewTokenResult converts a ledger record.
func NewTokenResult(t *token.Token) TokenResult {
	return TokenResult{
		Symbol:       t.Symbol,
		Owner:        t.Owner.String(),
		OwnerAddress: t.OwnerAddress().String(),
		Address:      t.Address().String(),
	}
}

// TokenListResult is returned by token_list.
type TokenListResult struct {
	Tokens []TokenResult `json:"tokens"`
}

// ExecutionResult is the outcome of an executed transaction.
type ExecutionResult struct {
	Status      string `json:"status"`
	Code        *uint8 `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
}

// NewExecutionResult converts an executor result.
func NewExecutionResult(r *service.Result) *ExecutionResult {
	return &ExecutionResult{
		Status:      string(r.Status),
		Code:        r.Code,
		Description: r.Description,
	}
}

// TxSubmitResult is returned by tx_submit.
type TxSubmitResult struct {
	TxHash string           `json:"tx_hash"`
	Result *ExecutionResult `json:"result"`
}

// TxResult is returned by tx_getResult.
type TxResult struct {
	TxHash string           `json:"tx_hash"`
	Result *ExecutionResult `json:"result"`
}

// IdentityResult is returned by identity_derive.
type IdentityResult struct {
	Kind    string `json:"kind"`
	Tag     uint8  `json:"tag"`
	Address string `json:"address"`
}

// NodeInfoResult is returned by node_getInfo.
type NodeInfoResult struct {
	Network  string                `json:"network"`
	Version  string                `json:"version"`
	Tokens   int                   `json:"tokens"`
	Services []service.ServiceInfo `json:"services"`
}
