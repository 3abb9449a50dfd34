package cryptoutils

import (
	"crypto/ecdsa"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"time"
)

// TLSCert represents a TLS certificate in PEM format.
type TLSCert []byte

// NewTLSCert creates a new certificate object from PEM-encoded data with validation.
func NewTLSCert(data []byte) (TLSCert, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "CERTIFICATE" {
		return TLSCert{}, errors.New("invalid certificate: not in PEM format or not a certificate")
	}

	_, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return TLSCert{}, fmt.Errorf("invalid certificate structure: %w", err)
	}

	return TLSCert(data), nil
}

// Validate checks if the certificate is properly formed.
func (cert TLSCert) Validate() error {
	_, err := NewTLSCert(cert)
	return err
}

// GetX509Cert returns the parsed X.509 certificate.
func (cert TLSCert) GetX509Cert() (*x509.Certificate, error) {
	block, _ := pem.Decode(cert)
	if block == nil {
		return nil, errors.New("failed to decode PEM block")
	}
	return x509.ParseCertificate(block.Bytes)
}

// IsExpired checks if the certificate has expired.
func (cert TLSCert) IsExpired() (bool, error) {
	x509Cert, err := cert.GetX509Cert()
	if err != nil {
		return false, err
	}
	return x509Cert.NotAfter.Before(time.Now()), nil
}

// Fingerprint returns the certificate's SHA-256 fingerprint as
// uppercase hex with no separators.
func (cert TLSCert) Fingerprint() (string, error) {
	return Fingerprint(cert)
}

// TLSKey represents a TLS private key in PEM format. Both PKCS#8
// ("PRIVATE KEY") and SEC1 ("EC PRIVATE KEY") encodings are accepted.
type TLSKey []byte

// NewTLSKey creates a new private key object from PEM-encoded data with validation.
func NewTLSKey(data []byte) (TLSKey, error) {
	block, _ := pem.Decode(data)
	if block == nil || (block.Type != "PRIVATE KEY" && block.Type != "EC PRIVATE KEY") {
		return TLSKey{}, errors.New("invalid private key: not in PEM format or not a private key")
	}

	key := TLSKey(data)
	if _, err := key.GetECDSAKey(); err != nil {
		return TLSKey{}, err
	}

	return key, nil
}

// Validate checks if the private key is properly formed.
func (key TLSKey) Validate() error {
	_, err := NewTLSKey(key)
	return err
}

// GetECDSAKey returns the parsed ECDSA private key.
func (key TLSKey) GetECDSAKey() (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode(key)
	if block == nil {
		return nil, errors.New("failed to decode PEM block")
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		// Try SEC1 format if PKCS#8 fails
		ecKey, ecErr := x509.ParseECPrivateKey(block.Bytes)
		if ecErr != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		return ecKey, nil
	}

	ecKey, ok := parsed.(*ecdsa.PrivateKey)
	if !ok {
		return nil, errors.New("not an ECDSA private key")
	}
	return ecKey, nil
}

// AsTLSCertificate combines the key and certificate into a
// tls.Certificate ready for use by a TLS listener.
func (key TLSKey) AsTLSCertificate(cert TLSCert) (tls.Certificate, error) {
	return tls.X509KeyPair(cert, key)
}
