// Package tx defines the signed transaction envelope and service payloads.
package tx

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"

	"github.com/Klingon-tech/klingnet-tokens/pkg/crypto"
	"github.com/Klingon-tech/klingnet-tokens/pkg/types"
)

// Transaction is a signed message addressed to one service handler.
type Transaction struct {
	ServiceID uint16          `json:"service_id"`
	MessageID uint16          `json:"message_id"`
	Author    types.PublicKey `json:"author"`
	Nonce     uint64          `json:"nonce"`
	Payload   []byte          `json:"payload"`
	Signature []byte          `json:"signature"`
}

// transactionJSON is the JSON representation with hex-encoded byte fields.
type transactionJSON struct {
	ServiceID uint16          `json:"service_id"`
	MessageID uint16          `json:"message_id"`
	Author    types.PublicKey `json:"author"`
	Nonce     uint64          `json:"nonce"`
	Payload   string          `json:"payload"`
	Signature string          `json:"signature,omitempty"`
}

// MarshalJSON encodes the transaction with hex-encoded payload and signature.
func (tx Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		ServiceID: tx.ServiceID,
		MessageID: tx.MessageID,
		Author:    tx.Author,
		Nonce:     tx.Nonce,
		Payload:   hex.EncodeToString(tx.Payload),
		Signature: hex.EncodeToString(tx.Signature),
	})
}

// UnmarshalJSON decodes a transaction with hex-encoded payload and signature.
func (tx *Transaction) UnmarshalJSON(data []byte) error {
	var j transactionJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	payload, err := hex.DecodeString(j.Payload)
	if err != nil {
		return err
	}
	sig, err := hex.DecodeString(j.Signature)
	if err != nil {
		return err
	}
	tx.ServiceID = j.ServiceID
	tx.MessageID = j.MessageID
	tx.Author = j.Author
	tx.Nonce = j.Nonce
	tx.Payload = payload
	tx.Signature = sig
	if len(tx.Signature) == 0 {
		tx.Signature = nil
	}
	return nil
}

// Hash computes the transaction ID (BLAKE3 hash of the signing bytes).
// The signature is excluded.
func (tx *Transaction) Hash() types.Hash {
	return crypto.Hash(tx.SigningBytes())
}

// SigningBytes returns the canonical byte representation used for signing.
// Format: service(2) | message(2) | author(32) | nonce(8) | payload_len(4) | payload
func (tx *Transaction) SigningBytes() []byte {
	buf := make([]byte, 0, 48+len(tx.Payload))
	buf = binary.LittleEndian.AppendUint16(buf, tx.ServiceID)
	buf = binary.LittleEndian.AppendUint16(buf, tx.MessageID)
	buf = append(buf, tx.Author[:]...)
	buf = binary.LittleEndian.AppendUint64(buf, tx.Nonce)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(tx.Payload)))
	buf = append(buf, tx.Payload...)
	return buf
}
