package config

import (
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// KeyType is the on-disk encoding of the client private key.
type KeyType int

const (
	KeyTypePEM KeyType = iota
	KeyTypeDER
)

// ClientAuthCredentials holds everything needed for TLS client authentication.
// One set of credentials is shared by every server of a scan.
type ClientAuthCredentials struct {
	CertificateChainPath string
	KeyPath              string
	KeyType              KeyType
	KeyPassphrase        string
}

// NewClientAuthCredentials reads and sanity-checks the certificate chain and
// private key files. An unreadable or malformed file fails construction.
func NewClientAuthCredentials(certChainPath, keyPath string, keyType KeyType, keyPassphrase string) (*ClientAuthCredentials, error) {
	chain, err := os.ReadFile(certChainPath)
	if err != nil {
		return nil, fmt.Errorf("reading certificate chain: %w", err)
	}
	if block, _ := pem.Decode(chain); block == nil {
		return nil, fmt.Errorf("certificate chain %s is not PEM encoded", certChainPath)
	}

	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("reading private key: %w", err)
	}
	switch keyType {
	case KeyTypePEM:
		if block, _ := pem.Decode(key); block == nil {
			return nil, fmt.Errorf("private key %s is not PEM encoded", keyPath)
		}
	case KeyTypeDER:
		if len(key) == 0 {
			return nil, fmt.Errorf("private key %s is empty", keyPath)
		}
	default:
		return nil, errors.New("unknown private key type")
	}

	return &ClientAuthCredentials{
		CertificateChainPath: certChainPath,
		KeyPath:              keyPath,
		KeyType:              keyType,
		KeyPassphrase:        keyPassphrase,
	}, nil
}
