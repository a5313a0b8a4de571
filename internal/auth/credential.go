package auth

import (
	"encoding/hex"
	"strings"

	"github.com/fivetwenty-io/ghostctl/internal/constants"
	"github.com/fivetwenty-io/ghostctl/pkg/ghost"
)

// Credential is an admin API key split into its identifier and decoded signing secret.
// It is immutable and never rendered with its secret.
type Credential struct {
	id     string
	secret []byte
}

// ParseCredential parses an "<id>:<hex secret>" admin key.
func ParseCredential(key string) (*Credential, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, &ghost.CredentialFormatError{Reason: "key is empty"}
	}

	id, secret, found := strings.Cut(key, ":")
	if !found {
		return nil, &ghost.CredentialFormatError{Reason: "missing ':' separator"}
	}

	return NewCredential(id, secret)
}

// NewCredential builds a Credential from a key id and a hex encoded secret.
func NewCredential(id, hexSecret string) (*Credential, error) {
	if id == "" {
		return nil, &ghost.CredentialFormatError{Reason: "key id is empty"}
	}

	if hexSecret == "" {
		return nil, &ghost.CredentialFormatError{Reason: "secret is empty"}
	}

	secret, err := hex.DecodeString(hexSecret)
	if err != nil {
		return nil, &ghost.CredentialFormatError{Reason: "secret is not valid hex", Err: err}
	}

	return &Credential{id: id, secret: secret}, nil
}

// ID returns the key identifier, which is safe to log.
func (c *Credential) ID() string {
	return c.id
}

// String renders the credential with its secret redacted.
func (c *Credential) String() string {
	return c.id + ":" + constants.RedactedValue
}

// GoString keeps %#v from printing the secret bytes.
func (c *Credential) GoString() string {
	return "auth.Credential{id: " + c.id + ", secret: " + constants.RedactedValue + "}"
}

// signingKey returns a copy of the decoded secret.
func (c *Credential) signingKey() []byte {
	key := make([]byte, len(c.secret))
	copy(key, c.secret)

	return key
}
