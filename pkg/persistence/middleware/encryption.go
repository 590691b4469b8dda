package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/stratum/pkg/domain"
	"github.com/aretw0/stratum/pkg/ports"
)

// envelopePrefix marks an encrypted record value.
const envelopePrefix = "enc:v1:"

// ErrKeySize is returned for keys that are not 32 bytes.
var ErrKeySize = errors.New("encryption key must be 32 bytes (AES-256)")

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

// ParseKey decodes a base64 key and checks its size.
func ParseKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key: %w", err)
	}
	if len(key) != 32 {
		return nil, ErrKeySize
	}
	return key, nil
}

type encryptionMiddleware struct {
	next   ports.ClusterStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that encrypts record values using
// AES-GCM. Names, types and timestamps stay readable so listing and indexing
// keep working on the underlying store.
func NewEncryptionMiddleware(config EncryptionConfig) (Middleware, error) {
	if len(config.ActiveKey) != 32 {
		return nil, ErrKeySize
	}
	for _, k := range config.FallbackKeys {
		if len(k) != 32 {
			return nil, ErrKeySize
		}
	}
	return func(next ports.ClusterStore) ports.ClusterStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}, nil
}

func (m *encryptionMiddleware) Save(ctx context.Context, cluster *domain.Cluster) error {
	sealed := cluster.Snapshot()
	for i, rec := range sealed.Records {
		ciphertext, err := encrypt([]byte(rec.Value), m.config.ActiveKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt record %s: %w", rec.ID, err)
		}
		sealed.Records[i].Value = envelopePrefix + base64.StdEncoding.EncodeToString(ciphertext)
	}
	return m.next.Save(ctx, sealed)
}

func (m *encryptionMiddleware) Load(ctx context.Context, ref domain.ClusterRef) (*domain.Cluster, error) {
	sealed, err := m.next.Load(ctx, ref)
	if err != nil {
		return nil, err
	}

	out := sealed.Snapshot()
	for i, rec := range out.Records {
		encoded, ok := strings.CutPrefix(rec.Value, envelopePrefix)
		if !ok {
			// Fail secure: a plain value means the store was written without encryption.
			return nil, fmt.Errorf("record %s is missing encrypted data envelope", rec.ID)
		}
		ciphertext, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("failed to decode ciphertext base64: %w", err)
		}
		plainText, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt record %s: %w", rec.ID, err)
		}
		out.Records[i].Value = string(plainText)
	}
	return out, nil
}

func (m *encryptionMiddleware) Delete(ctx context.Context, ref domain.ClusterRef) error {
	return m.next.Delete(ctx, ref)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]domain.ClusterRef, error) {
	return m.next.List(ctx)
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}

	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}

	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	ciphertextBytes := ciphertext[gcm.NonceSize():]

	return gcm.Open(nil, nonce, ciphertextBytes, nil)
}
