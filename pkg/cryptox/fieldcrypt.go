package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrDecrypt reports a token that failed authentication: tampered bytes, a
// truncated token, or a token sealed under a different key. No plaintext is
// ever returned alongside it.
var ErrDecrypt = errors.New("cryptox: decryption failed")

// Keeper performs authenticated field encryption under a single process-wide
// AES-256 key. The key is injected at construction and held immutably for the
// process lifetime; there is no per-call derivation and no package-level
// key state, so tests can run isolated keepers side by side.
type Keeper struct {
	aead cipher.AEAD
}

// NewKeeper derives a 32-byte AES key from the given key material via SHA-256
// and returns a ready Keeper.
func NewKeeper(keyMaterial []byte) (*Keeper, error) {
	if len(keyMaterial) == 0 {
		return nil, errors.New("cryptox: empty key material")
	}
	sum := sha256.Sum256(keyMaterial)
	block, err := aes.NewCipher(sum[:])
	if err != nil {
		return nil, fmt.Errorf("cryptox: create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cryptox: create GCM: %w", err)
	}
	return &Keeper{aead: aead}, nil
}

// NewKeeperFromFile loads key material from path, generating and persisting a
// fresh random key on first run (0600). The file is read once; rotation means
// restarting the process with a new file.
func NewKeeperFromFile(path string) (*Keeper, error) {
	path = filepath.Clean(path)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		data, err = generateKeyFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("cryptox: load key file: %w", err)
	}
	return NewKeeper(data)
}

func generateKeyFile(path string) ([]byte, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, err
	}
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	data := []byte(base64.RawURLEncoding.EncodeToString(raw))
	if err := os.WriteFile(path, data, 0600); err != nil {
		return nil, err
	}
	return data, nil
}

// Seal encrypts value and returns a base64url token of the form
// [12-byte nonce][ciphertext][16-byte tag]. The nonce is fresh per call, so
// sealing the same value twice yields different tokens; both decrypt to the
// same plaintext.
func (k *Keeper) Seal(value string) (string, error) {
	nonce := make([]byte, k.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("cryptox: generate nonce: %w", err)
	}
	out := k.aead.Seal(nonce, nonce, []byte(value), nil)
	return base64.RawURLEncoding.EncodeToString(out), nil
}

// Open decrypts a token produced by Seal. Any authentication failure comes
// back as ErrDecrypt; corrupted input never yields partial plaintext.
func (k *Keeper) Open(token string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", ErrDecrypt
	}
	nonceSize := k.aead.NonceSize()
	if len(raw) < nonceSize {
		return "", ErrDecrypt
	}
	plaintext, err := k.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plaintext), nil
}
