package protector

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keySize    = 32
	iterations = 4096
)

// salt is fixed so every router process derives the same key from the
// same passphrase and tokens can be decoded by downstream log processing.
var salt = []byte{0x5a, 0x1c, 0x9e, 0x33, 0x70, 0xd4, 0x2b, 0x86}

// ErrShortCiphertext is returned when the input cannot hold a nonce
var ErrShortCiphertext = errors.New("ciphertext too short")

// Protector encrypts small payloads into URL safe strings
type Protector struct {
	aead cipher.AEAD
}

// New derives an AES-256-GCM key from the passphrase
func New(passphrase string) (*Protector, error) {
	if passphrase == "" {
		return nil, errors.New("passphrase is required")
	}

	key := pbkdf2.Key([]byte(passphrase), salt, iterations, keySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Protector{aead: aead}, nil
}

// EncryptForURL seals the payload and returns nonce||ciphertext encoded
// with the unpadded URL alphabet
func (p *Protector) EncryptForURL(plaintext []byte) (string, error) {
	nonce := make([]byte, p.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := p.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// DecryptFromURL reverses EncryptForURL
func (p *Protector) DecryptFromURL(encoded string) ([]byte, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode: %w", err)
	}

	ns := p.aead.NonceSize()
	if len(sealed) < ns {
		return nil, ErrShortCiphertext
	}

	plaintext, err := p.aead.Open(nil, sealed[:ns], sealed[ns:], nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}

	return plaintext, nil
}
