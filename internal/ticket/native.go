package ticket

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/ssh"
)

// NativeSigner signs tickets in process with an RSA private key.
type NativeSigner struct {
	key *rsa.PrivateKey
	now func() time.Time
}

type payload struct {
	ID             string `json:"id"`
	ExpirationDate string `json:"expirationDate"`
}

// NewNativeSigner loads the RSA private key at path. PEM (PKCS#1 or PKCS#8)
// and OpenSSH encodings are accepted.
func NewNativeSigner(path string) (*NativeSigner, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- configured key file
	if err != nil {
		return nil, fmt.Errorf("failed to read onboarding private key: %w", err)
	}
	raw, err := ssh.ParseRawPrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse onboarding private key: %w", err)
	}
	key, ok := raw.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("onboarding private key must be RSA, got %T", raw)
	}
	return &NativeSigner{key: key, now: time.Now}, nil
}

// Generate returns a freshly signed ticket.
func (s *NativeSigner) Generate(context.Context) (string, error) {
	body, err := json.Marshal(payload{
		ID:             uuid.NewString(),
		ExpirationDate: strconv.FormatInt(s.now().Add(Lifetime).Unix(), 10),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode ticket payload: %w", err)
	}

	digest := sha256.Sum256(body)
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.key, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("failed to sign ticket: %w", err)
	}

	enc := base64.StdEncoding
	return enc.EncodeToString(body) + "." + enc.EncodeToString(sig), nil
}
