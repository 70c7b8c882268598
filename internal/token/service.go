package token

import (
	"github.com/Klingon-tech/klingnet-tokens/internal/service"
	"github.com/Klingon-tech/klingnet-tokens/pkg/tx"
)

// Service identity.
const (
	ServiceID   = tx.CryptocurrencyServiceID
	ServiceName = "cryptocurrency"

	CreateTokenMessageID   = tx.CreateTokenMessageID
	CreateTokenMessageName = "CreateToken"
)

// Register adds the cryptocurrency service handlers to r.
func Register(r *service.Registry) error {
	return r.Register(ServiceID, ServiceName, CreateTokenMessageID, CreateTokenMessageName, handleCreateToken)
}

func handleCreateToken(ctx *service.Context, payload []byte) error {
	msg, err := tx.DecodeCreateToken(payload)
	if err != nil {
		return err
	}
	return createToken(ctx.Logger, ctx.Fork, msg.Symbol, ctx.Author)
}
