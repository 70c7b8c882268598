package token

import (
	"github.com/rs/zerolog"

	klog "github.com/Klingon-tech/klingnet-tokens/internal/log"
	"github.com/Klingon-tech/klingnet-tokens/internal/service"
	"github.com/Klingon-tech/klingnet-tokens/internal/storage"
	"github.com/Klingon-tech/klingnet-tokens/pkg/types"
)

// ErrTokenAlreadyExists rejects a CreateToken whose symbol is taken.
var ErrTokenAlreadyExists = service.NewExecutionError(0, "Token already exists")

// CreateToken registers a new token owned by actor. The actor must already
// be authenticated by the caller. If the symbol is taken the view is left
// untouched and ErrTokenAlreadyExists is returned.
func CreateToken(view storage.ReadWriter, symbol string, actor types.PublicKey) error {
	return createToken(klog.Ledger, view, symbol, actor)
}

func createToken(logger zerolog.Logger, view storage.ReadWriter, symbol string, actor types.PublicKey) error {
	schema := NewMutSchema(view)

	_, exists, err := schema.Token(symbol)
	if err != nil {
		return err
	}
	if exists {
		return ErrTokenAlreadyExists
	}

	tok := &Token{Owner: actor, Symbol: symbol}
	if err := schema.Put(symbol, tok); err != nil {
		return err
	}

	logger.Info().
		Str("symbol", symbol).
		Str("owner", actor.String()).
		Str("address", tok.Address().String()).
		Msg("Created token")
	return nil
}
