package token

import (
	"errors"
	"fmt"
	"iter"

	"github.com/Klingon-tech/klingnet-tokens/internal/storage"
)

// Prefix is the namespace of the token index: Prefix + symbol -> Token.
var Prefix = []byte("cryptocurrency.tokens/")

var errStop = errors.New("stop iteration")

// Schema is a read-only view of the token ledger.
type Schema struct {
	view *storage.PrefixReader
}

// NewSchema opens the ledger over any readable view: a DB, a snapshot or a
// fork.
func NewSchema(view storage.Reader) *Schema {
	return &Schema{view: storage.NewPrefixReader(view, Prefix)}
}

// Token returns the token registered under symbol. A missing token is
// reported as (nil, false, nil); errors are storage or decoding faults.
func (s *Schema) Token(symbol string) (*Token, bool, error) {
	data, err := s.view.Get([]byte(symbol))
	if storage.IsNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("token get %q: %w", symbol, err)
	}
	tok, err := Unmarshal(data)
	if err != nil {
		return nil, false, fmt.Errorf("token get %q: %w", symbol, err)
	}
	return tok, true, nil
}

// Tokens iterates over all tokens ordered by symbol bytes. Iteration is
// lazy and the sequence may be ranged over more than once. A decoding
// fault is yielded as an error and ends the sequence.
func (s *Schema) Tokens() iter.Seq2[*Token, error] {
	return func(yield func(*Token, error) bool) {
		err := s.view.ForEach(nil, func(key, value []byte) error {
			tok, err := Unmarshal(value)
			if err != nil {
				return fmt.Errorf("token %q: %w", key, err)
			}
			if !yield(tok, nil) {
				return errStop
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStop) {
			yield(nil, err)
		}
	}
}

// List returns all tokens ordered by symbol. The result is never nil.
func (s *Schema) List() ([]*Token, error) {
	tokens := []*Token{}
	for tok, err := range s.Tokens() {
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// Count returns the number of tokens.
func (s *Schema) Count() (int, error) {
	n := 0
	err := s.view.ForEach(nil, func(_, _ []byte) error {
		n++
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("token count: %w", err)
	}
	return n, nil
}

// MutSchema is a mutable view of the token ledger.
type MutSchema struct {
	*Schema
	w *storage.PrefixReadWriter
}

// NewMutSchema opens the ledger over a mutable view, normally a fork.
func NewMutSchema(view storage.ReadWriter) *MutSchema {
	return &MutSchema{
		Schema: NewSchema(view),
		w:      storage.NewPrefixReadWriter(view, Prefix),
	}
}

// Put stores tok under symbol, replacing any existing record. Uniqueness is
// enforced by CreateToken, not here.
func (m *MutSchema) Put(symbol string, tok *Token) error {
	if tok == nil {
		return fmt.Errorf("token put %q: nil token", symbol)
	}
	if err := m.w.Put([]byte(symbol), tok.Marshal()); err != nil {
		return fmt.Errorf("token put %q: %w", symbol, err)
	}
	return nil
}
