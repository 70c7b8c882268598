package wallet

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Encryption constants.
const (
	SaltSize = 32
	// Encrypted format: [salt(32)][memory(4)][iterations(4)][parallelism(1)][nonce(24)][ciphertext...]
	headerSize = SaltSize + 4 + 4 + 1
)

// Encryption errors.
var (
	ErrWrongPassword = errors.New("wrong password or corrupt data")
	ErrBadParams     = errors.New("invalid encryption parameters")
)

// EncryptionParams holds Argon2id parameters.
type EncryptionParams struct {
	Memory      uint32 // in KiB
	Iterations  uint32
	Parallelism uint8
}

// DefaultParams returns recommended Argon2id parameters.
func DefaultParams() EncryptionParams {
	return EncryptionParams{
		Memory:      64 * 1024, // 64 MB
		Iterations:  3,
		Parallelism: 4,
	}
}

// Validate rejects parameters argon2 cannot run with.
func (p EncryptionParams) Validate() error {
	if p.Iterations == 0 || p.Parallelism == 0 {
		return fmt.Errorf("%w: iterations and parallelism must be non-zero", ErrBadParams)
	}
	if p.Memory < 8*uint32(p.Parallelism) {
		return fmt.Errorf("%w: memory %d KiB below 8*parallelism", ErrBadParams, p.Memory)
	}
	return nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// newAEAD derives a key with Argon2id and builds an XChaCha20-Poly1305 AEAD.
func newAEAD(password, salt []byte, params EncryptionParams) (cipher.AEAD, error) {
	key := argon2.IDKey(password, salt, params.Iterations, params.Memory, params.Parallelism, chacha20poly1305.KeySize)
	defer zero(key)
	return chacha20poly1305.NewX(key)
}

// Encrypt seals data under password using Argon2id + XChaCha20-Poly1305.
// The KDF parameters travel in the header and are authenticated.
func Encrypt(data, password []byte, params EncryptionParams) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	header := make([]byte, SaltSize, headerSize)
	if _, err := rand.Read(header); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	header = binary.LittleEndian.AppendUint32(header, params.Memory)
	header = binary.LittleEndian.AppendUint32(header, params.Iterations)
	header = append(header, params.Parallelism)

	aead, err := newAEAD(password, header[:SaltSize], params)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, headerSize+len(nonce)+len(data)+chacha20poly1305.Overhead)
	out = append(out, header...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, data, header), nil
}

// Decrypt opens data sealed by Encrypt.
func Decrypt(encrypted, password []byte) ([]byte, error) {
	nonceSize := chacha20poly1305.NonceSizeX
	minSize := headerSize + nonceSize + chacha20poly1305.Overhead
	if len(encrypted) < minSize {
		return nil, fmt.Errorf("encrypted data too short: %d bytes, need at least %d", len(encrypted), minSize)
	}

	header := encrypted[:headerSize]
	params := EncryptionParams{
		Memory:      binary.LittleEndian.Uint32(header[SaltSize:]),
		Iterations:  binary.LittleEndian.Uint32(header[SaltSize+4:]),
		Parallelism: header[SaltSize+8],
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	aead, err := newAEAD(password, header[:SaltSize], params)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	nonce := encrypted[headerSize : headerSize+nonceSize]
	plaintext, err := aead.Open(nil, nonce, encrypted[headerSize+nonceSize:], header)
	if err != nil {
		return nil, ErrWrongPassword
	}
	return plaintext, nil
}
