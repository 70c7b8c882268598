package rpc

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-tokens/internal/service"
	"github.com/Klingon-tech/klingnet-tokens/internal/token"
	"github.com/Klingon-tech/klingnet-tokens/pkg/identity"
	"github.com/Klingon-tech/klingnet-tokens/pkg/types"
)

// errTokenNotFound is the message for missing tokens on both APIs.
const errTokenNotFound = "Token not found"

// ── Token endpoints ─────────────────────────────────────────────────────

func (s *Server) handleTokenGet(req *Request) (interface{}, *Error) {
	var params SymbolParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	tok, rpcErr := s.lookupToken(params.Symbol)
	if rpcErr != nil {
		return nil, rpcErr
	}
	result := NewTokenResult(tok)
	return &result, nil
}

func (s *Server) handleTokenList(_ *Request) (interface{}, *Error) {
	tokens, rpcErr := s.listTokens()
	if rpcErr != nil {
		return nil, rpcErr
	}
	return &TokenListResult{Tokens: tokens}, nil
}

// lookupToken reads one token from a fresh snapshot.
func (s *Server) lookupToken(symbol string) (*token.Token, *Error) {
	snap := s.executor.Snapshot()
	defer snap.Release()

	tok, ok, err := token.NewSchema(snap).Token(symbol)
	if err != nil {
		s.logger.Error().Err(err).Str("symbol", symbol).Msg("Token lookup failed")
		return nil, &Error{Code: CodeInternalError, Message: fmt.Sprintf("get token: %v", err)}
	}
	if !ok {
		return nil, &Error{Code: CodeNotFound, Message: errTokenNotFound}
	}
	return tok, nil
}

// listTokens reads every token from a fresh snapshot.
func (s *Server) listTokens() ([]TokenResult, *Error) {
	snap := s.executor.Snapshot()
	defer snap.Release()

	list, err := token.NewSchema(snap).List()
	if err != nil {
		s.logger.Error().Err(err).Msg("Token list failed")
		return nil, &Error{Code: CodeInternalError, Message: fmt.Sprintf("list tokens: %v", err)}
	}

	results := make([]TokenResult, len(list))
	for i, tok := range list {
		results[i] = NewTokenResult(tok)
	}
	return results, nil
}

// ── Transaction endpoints ───────────────────────────────────────────────

func (s *Server) handleTxSubmit(req *Request) (interface{}, *Error) {
	var params TxSubmitParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	if params.Transaction == nil {
		return nil, &Error{Code: CodeInvalidParams, Message: "transaction is required"}
	}

	hash, res, err := s.executor.Execute(params.Transaction)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTx),
			errors.Is(err, service.ErrAlreadyApplied),
			errors.Is(err, service.ErrUnknownMessage):
			return nil, &Error{Code: CodeTxRejected, Message: err.Error()}
		default:
			s.logger.Error().Err(err).Str("tx", hash.String()).Msg("Transaction execution failed")
			return nil, &Error{Code: CodeInternalError, Message: fmt.Sprintf("execute: %v", err)}
		}
	}

	return &TxSubmitResult{
		TxHash: hash.String(),
		Result: NewExecutionResult(res),
	}, nil
}

func (s *Server) handleTxGetResult(req *Request) (interface{}, *Error) {
	var params HashParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}
	hash, err := types.HexToHash(params.Hash)
	if err != nil {
		return nil, &Error{Code: CodeInvalidParams, Message: "invalid hash: must be 32-byte hex"}
	}

	res, ok, err := s.executor.Result(hash)
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: fmt.Sprintf("get result: %v", err)}
	}
	if !ok {
		return nil, &Error{Code: CodeNotFound, Message: "transaction not found"}
	}
	return &TxResult{TxHash: hash.String(), Result: NewExecutionResult(res)}, nil
}

// ── Identity endpoints ──────────────────────────────────────────────────

func (s *Server) handleIdentityDerive(req *Request) (interface{}, *Error) {
	var params IdentityDeriveParam
	if err := parseParams(req, &params); err != nil {
		return nil, err
	}

	var desc identity.Descriptor
	switch params.Kind {
	case IdentityAccount:
		pk, err := types.HexToPublicKey(params.PublicKey)
		if err != nil {
			return nil, &Error{Code: CodeInvalidParams, Message: "invalid public_key: must be 32-byte hex"}
		}
		desc = identity.Account{PublicKey: pk}
	case IdentityToken:
		owner, err := hex.DecodeString(params.OwnerID)
		if err != nil {
			return nil, &Error{Code: CodeInvalidParams, Message: "invalid owner_id: must be hex"}
		}
		desc = identity.Token{OwnerID: owner, Symbol: params.Symbol}
	default:
		return nil, &Error{Code: CodeInvalidParams, Message: fmt.Sprintf("kind must be %q or %q", IdentityAccount, IdentityToken)}
	}

	addr := identity.Derive(desc)
	return &IdentityResult{
		Kind:    params.Kind,
		Tag:     addr.Tag(),
		Address: addr.String(),
	}, nil
}

// ── Node endpoints ──────────────────────────────────────────────────────

func (s *Server) handleNodeGetInfo(_ *Request) (interface{}, *Error) {
	snap := s.executor.Snapshot()
	defer snap.Release()

	count, err := token.NewSchema(snap).Count()
	if err != nil {
		return nil, &Error{Code: CodeInternalError, Message: fmt.Sprintf("count tokens: %v", err)}
	}
	return &NodeInfoResult{
		Network:  s.network,
		Version:  Version,
		Tokens:   count,
		Services: s.executor.Registry().Services(),
	}, nil
}
