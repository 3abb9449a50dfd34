package cryptoutils

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"net"
	"strings"
	"time"
)

// serialNumberLimit bounds the random serial at 128 bits, the maximum
// RFC 5280 allows.
var serialNumberLimit = new(big.Int).Lsh(big.NewInt(1), 128)

// GenerateSelfSigned creates a fresh ECDSA P-256 (prime256v1) key pair
// and a self-signed X.509 certificate for it with the given subject
// common name and validity duration, both PEM-encoded. The private key
// is returned unencrypted in PKCS#8 form.
//
// The certificate carries a single SAN equal to the common name and is
// suitable for localhost development servers, including WebTransport
// serverCertificateHashes pinning (browsers accept pinned certificates
// only when they use an ECDSA key and are valid for at most two weeks).
func GenerateSelfSigned(cn string, validity time.Duration) (TLSKey, TLSCert, error) {
	if cn == "" {
		return nil, nil, errors.New("common name must not be empty")
	}
	if validity <= 0 {
		return nil, nil, fmt.Errorf("validity must be positive, got %s", validity)
	}

	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate private key: %w", err)
	}

	serialNumber, err := rand.Int(rand.Reader, serialNumberLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate serial number: %w", err)
	}

	notBefore := time.Now()
	template := &x509.Certificate{
		SerialNumber: serialNumber,
		Subject: pkix.Name{
			CommonName: cn,
		},
		NotBefore:             notBefore,
		NotAfter:              notBefore.Add(validity),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		SignatureAlgorithm:    x509.ECDSAWithSHA256,
	}

	if ip := net.ParseIP(cn); ip != nil {
		template.IPAddresses = []net.IP{ip}
	} else {
		template.DNSNames = []string{cn}
	}

	certDER, err := x509.CreateCertificate(rand.Reader, template, template,
		privateKey.Public(), privateKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create certificate: %w", err)
	}

	privateKeyBytes, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal private key: %w", err)
	}

	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privateKeyBytes})
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})

	return TLSKey(keyPEM), TLSCert(certPEM), nil
}

// Fingerprint computes the SHA-256 fingerprint of a PEM-encoded
// certificate as an uppercase hex string with no separators. The digest
// is taken over the certificate's DER bytes, so the result equals the
// output of `openssl x509 -noout -fingerprint -sha256` with the label
// and colons stripped.
func Fingerprint(certPEM []byte) (string, error) {
	block, _ := pem.Decode(certPEM)
	if block == nil || block.Type != "CERTIFICATE" {
		return "", errors.New("failed to decode certificate PEM block")
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return "", fmt.Errorf("failed to parse certificate: %w", err)
	}

	digest := sha256.Sum256(cert.Raw)
	return strings.ToUpper(hex.EncodeToString(digest[:])), nil
}

// VerifyCertificate validates that a certificate matches a given private key and has the expected common name.
// It performs the following checks:
//   - Both the key and the certificate can be parsed correctly
//   - The common name matches the expected value
//   - The public key in the certificate corresponds to the provided private key
//   - The certificate's self-signature verifies under that key
//
// This function is useful for ensuring that a certificate was issued for the correct entity
// and matches the private key that will be used with it.
func VerifyCertificate(keyPEM, certPEM []byte, expectedCN string) error {
	key, err := NewTLSKey(keyPEM)
	if err != nil {
		return err
	}

	privateKey, err := key.GetECDSAKey()
	if err != nil {
		return err
	}

	wrappedCert, err := NewTLSCert(certPEM)
	if err != nil {
		return err
	}

	cert, err := wrappedCert.GetX509Cert()
	if err != nil {
		return err
	}

	if cert.Subject.CommonName != expectedCN {
		return fmt.Errorf("CommonName is %s, expected %s", cert.Subject.CommonName, expectedCN)
	}

	certPublicKey, ok := cert.PublicKey.(*ecdsa.PublicKey)
	if !ok {
		return errors.New("certificate public key is not ECDSA")
	}

	keyPublic := privateKey.Public().(*ecdsa.PublicKey)
	if certPublicKey.X.Cmp(keyPublic.X) != 0 ||
		certPublicKey.Y.Cmp(keyPublic.Y) != 0 ||
		certPublicKey.Curve != keyPublic.Curve {
		return errors.New("private key doesn't match certificate")
	}

	// CheckSignatureFrom refuses non-CA parents, so verify the raw
	// self-signature directly.
	if err := cert.CheckSignature(cert.SignatureAlgorithm, cert.RawTBSCertificate, cert.Signature); err != nil {
		return fmt.Errorf("self-signature verification failed: %w", err)
	}

	return nil
}
