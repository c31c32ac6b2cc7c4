package testutil

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const organization = "Credit Simulator"

// TLSFiles writes a CA and a localhost server pair into a temporary directory
// that lives as long as the test.
func TLSFiles(t *testing.T) CertFiles {
	t.Helper()
	files, err := GenerateCertificates([]string{"localhost", "127.0.0.1"}, t.TempDir(), time.Hour)
	require.NoError(t, err)
	return files
}

// CertFiles names the PEM files written by GenerateCertificates.
type CertFiles struct {
	CACert     string
	CAKey      string
	ServerCert string
	ServerKey  string
}

// GenerateCertificates writes a throwaway CA and a server certificate
// signed by it for hosts (DNS names or IP addresses) into outDir.
func GenerateCertificates(hosts []string, outDir string, validFor time.Duration) (CertFiles, error) {
	files := CertFiles{
		CACert:     filepath.Join(outDir, "ca.pem"),
		CAKey:      filepath.Join(outDir, "ca-key.pem"),
		ServerCert: filepath.Join(outDir, "server.pem"),
		ServerKey:  filepath.Join(outDir, "server-key.pem"),
	}
	if len(hosts) == 0 {
		return files, fmt.Errorf("testutil: at least one host is required")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return files, fmt.Errorf("testutil: mkdir %s: %w", outDir, err)
	}

	now := time.Now()

	caKey, caDER, err := issue(&x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{Organization: []string{organization + " Dev CA"}},
		NotBefore:             now,
		NotAfter:              now.Add(10 * validFor),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}, nil, nil)
	if err != nil {
		return files, fmt.Errorf("testutil: CA: %w", err)
	}
	caCert, err := x509.ParseCertificate(caDER)
	if err != nil {
		return files, fmt.Errorf("testutil: parse CA cert: %w", err)
	}

	serverTemplate := &x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{Organization: []string{organization}, CommonName: hosts[0]},
		NotBefore:    now,
		NotAfter:     now.Add(validFor),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			serverTemplate.IPAddresses = append(serverTemplate.IPAddresses, ip)
		} else {
			serverTemplate.DNSNames = append(serverTemplate.DNSNames, h)
		}
	}
	serverKey, serverDER, err := issue(serverTemplate, caCert, caKey)
	if err != nil {
		return files, fmt.Errorf("testutil: server: %w", err)
	}

	if err := writeKeyPair(files.CACert, files.CAKey, caDER, caKey); err != nil {
		return files, err
	}
	return files, writeKeyPair(files.ServerCert, files.ServerKey, serverDER, serverKey)
}

// issue creates a P-256 key and a certificate for it. A nil parent makes the
// certificate self-signed.
func issue(tmpl, parent *x509.Certificate, parentKey *ecdsa.PrivateKey) (*ecdsa.PrivateKey, []byte, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("generate key: %w", err)
	}
	if parent == nil {
		parent, parentKey = tmpl, key
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, parent, &key.PublicKey, parentKey)
	if err != nil {
		return nil, nil, fmt.Errorf("create cert: %w", err)
	}
	return key, der, nil
}

func writeKeyPair(certPath, keyPath string, der []byte, key *ecdsa.PrivateKey) error {
	if err := writePEM(certPath, "CERTIFICATE", der); err != nil {
		return err
	}
	keyBytes, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return fmt.Errorf("testutil: marshal key: %w", err)
	}
	return writePEM(keyPath, "EC PRIVATE KEY", keyBytes)
}

func writePEM(path, blockType string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("testutil: write %s: %w", path, err)
	}
	defer f.Close()
	return pem.Encode(f, &pem.Block{Type: blockType, Bytes: data})
}
