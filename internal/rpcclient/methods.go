package rpcclient

import (
	"context"

	"github.com/Klingon-tech/klingnet-tokens/internal/rpc"
	"github.com/Klingon-tech/klingnet-tokens/pkg/tx"
)

// Token fetches one token by symbol.
func (c *Client) Token(ctx context.Context, symbol string) (*rpc.TokenResult, error) {
	var out rpc.TokenResult
	if err := c.CallContext(ctx, "token_get", rpc.SymbolParam{Symbol: symbol}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Tokens lists every token.
func (c *Client) Tokens(ctx context.Context) ([]rpc.TokenResult, error) {
	var out rpc.TokenListResult
	if err := c.CallContext(ctx, "token_list", nil, &out); err != nil {
		return nil, err
	}
	return out.Tokens, nil
}

// Submit sends a signed transaction and returns its execution outcome.
func (c *Client) Submit(ctx context.Context, transaction *tx.Transaction) (*rpc.TxSubmitResult, error) {
	var out rpc.TxSubmitResult
	if err := c.CallContext(ctx, "tx_submit", rpc.TxSubmitParam{Transaction: transaction}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Result fetches the stored outcome of a transaction.
func (c *Client) Result(ctx context.Context, hash string) (*rpc.TxResult, error) {
	var out rpc.TxResult
	if err := c.CallContext(ctx, "tx_getResult", rpc.HashParam{Hash: hash}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Derive asks the node to derive an address.
func (c *Client) Derive(ctx context.Context, param rpc.IdentityDeriveParam) (*rpc.IdentityResult, error) {
	var out rpc.IdentityResult
	if err := c.CallContext(ctx, "identity_derive", param, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// NodeInfo fetches node status.
func (c *Client) NodeInfo(ctx context.Context) (*rpc.NodeInfoResult, error) {
	var out rpc.NodeInfoResult
	if err := c.CallContext(ctx, "node_getInfo", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
