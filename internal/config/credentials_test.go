package config_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sslscout/sslscout/internal/config"
)

func TestNewClientAuthCredentials(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	certPath := filepath.Join(dir, "client.pem")
	keyPath := filepath.Join(dir, "client.key")
	derKeyPath := filepath.Join(dir, "client.der")

	certPEM, keyPEM, keyDER := generateClientPair(t)
	require.NoError(t, os.WriteFile(certPath, certPEM, 0o600))
	require.NoError(t, os.WriteFile(keyPath, keyPEM, 0o600))
	require.NoError(t, os.WriteFile(derKeyPath, keyDER, 0o600))

	t.Run("pem key", func(t *testing.T) {
		t.Parallel()
		creds, err := config.NewClientAuthCredentials(certPath, keyPath, config.KeyTypePEM, "")
		require.NoError(t, err)
		require.Equal(t, certPath, creds.CertificateChainPath)
		require.Equal(t, keyPath, creds.KeyPath)
		require.Equal(t, config.KeyTypePEM, creds.KeyType)
	})

	t.Run("der key", func(t *testing.T) {
		t.Parallel()
		creds, err := config.NewClientAuthCredentials(certPath, derKeyPath, config.KeyTypeDER, "s3cret")
		require.NoError(t, err)
		require.Equal(t, config.KeyTypeDER, creds.KeyType)
		require.Equal(t, "s3cret", creds.KeyPassphrase)
	})

	t.Run("missing certificate file", func(t *testing.T) {
		t.Parallel()
		_, err := config.NewClientAuthCredentials(filepath.Join(dir, "nope.pem"), keyPath, config.KeyTypePEM, "")
		require.Error(t, err)
	})

	t.Run("missing key file", func(t *testing.T) {
		t.Parallel()
		_, err := config.NewClientAuthCredentials(certPath, filepath.Join(dir, "nope.key"), config.KeyTypePEM, "")
		require.Error(t, err)
	})

	t.Run("key is not pem", func(t *testing.T) {
		t.Parallel()
		_, err := config.NewClientAuthCredentials(certPath, derKeyPath, config.KeyTypePEM, "")
		require.Error(t, err)
	})
}

func generateClientPair(t *testing.T) (certPEM, keyPEM, keyDER []byte) {
	t.Helper()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "client"},
		NotBefore:    time.Now(),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	require.NoError(t, err)

	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyDER = x509.MarshalPKCS1PrivateKey(priv)
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: keyDER})
	return certPEM, keyPEM, keyDER
}
