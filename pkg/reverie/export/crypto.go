package export

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"github.com/cognicore/reverie/pkg/reverie/internalerr"
)

// Encrypted payload parameters.
const (
	PayloadVersion = 1
	KDFIterations  = 150000
	SaltSize       = 16
	NonceSize      = 12
	KeySize        = 32
)

// Payload is an encrypted archive. Binary fields are standard base64.
type Payload struct {
	V    int    `json:"v"`
	Salt string `json:"salt"`
	IV   string `json:"iv"`
	CT   string `json:"ct"`
}

// Encrypt seals the archive's JSON with AES-256-GCM under a key derived
// from passphrase with PBKDF2-SHA256.
func Encrypt(passphrase string, a Archive) (Payload, error) {
	return encrypt(rand.Reader, passphrase, a)
}

func encrypt(random io.Reader, passphrase string, a Archive) (Payload, error) {
	if passphrase == "" {
		return Payload{}, fmt.Errorf("%w: empty passphrase", internalerr.ErrInvalidInput)
	}
	var plain bytes.Buffer
	if err := json.NewEncoder(&plain).Encode(a); err != nil {
		return Payload{}, err
	}

	salt := make([]byte, SaltSize)
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(random, salt); err != nil {
		return Payload{}, fmt.Errorf("export: salt: %w", err)
	}
	if _, err := io.ReadFull(random, nonce); err != nil {
		return Payload{}, fmt.Errorf("export: nonce: %w", err)
	}

	aead, err := newAEAD(passphrase, salt)
	if err != nil {
		return Payload{}, err
	}
	ct := aead.Seal(nil, nonce, plain.Bytes(), nil)

	enc := base64.StdEncoding
	return Payload{
		V:    PayloadVersion,
		Salt: enc.EncodeToString(salt),
		IV:   enc.EncodeToString(nonce),
		CT:   enc.EncodeToString(ct),
	}, nil
}

// Decrypt opens a payload. A wrong passphrase or tampered payload fails
// with internalerr.ErrDecrypt; an unknown version or malformed field with
// internalerr.ErrInvalidInput.
func Decrypt(passphrase string, p Payload) (Archive, error) {
	if p.V != PayloadVersion {
		return Archive{}, fmt.Errorf("%w: unsupported payload version %d", internalerr.ErrInvalidInput, p.V)
	}
	enc := base64.StdEncoding
	salt, err := enc.DecodeString(p.Salt)
	if err != nil {
		return Archive{}, fmt.Errorf("%w: salt: %v", internalerr.ErrInvalidInput, err)
	}
	nonce, err := enc.DecodeString(p.IV)
	if err != nil || len(nonce) != NonceSize {
		return Archive{}, fmt.Errorf("%w: iv", internalerr.ErrInvalidInput)
	}
	ct, err := enc.DecodeString(p.CT)
	if err != nil {
		return Archive{}, fmt.Errorf("%w: ct: %v", internalerr.ErrInvalidInput, err)
	}

	aead, err := newAEAD(passphrase, salt)
	if err != nil {
		return Archive{}, err
	}
	plain, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return Archive{}, internalerr.ErrDecrypt
	}
	return ReadArchive(bytes.NewReader(plain))
}

// ReadPayload decodes an encrypted payload file.
func ReadPayload(r io.Reader) (Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Payload{}, fmt.Errorf("%w: payload: %v", internalerr.ErrInvalidInput, err)
	}
	return p, nil
}

func newAEAD(passphrase string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(passphrase), salt, KDFIterations, KeySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
