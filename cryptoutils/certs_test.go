package cryptoutils

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSelfSigned(t *testing.T) {
	key, cert, err := GenerateSelfSigned("localhost", 14*24*time.Hour)
	require.NoError(t, err)

	x509Cert, err := cert.GetX509Cert()
	require.NoError(t, err)

	assert.Equal(t, "localhost", x509Cert.Subject.CommonName)
	assert.Contains(t, x509Cert.DNSNames, "localhost")
	assert.Equal(t, x509.ECDSAWithSHA256, x509Cert.SignatureAlgorithm)

	// Validity window is exactly the requested duration
	validity := x509Cert.NotAfter.Sub(x509Cert.NotBefore)
	assert.Equal(t, 14*24*time.Hour, validity)
	assert.WithinDuration(t, time.Now(), x509Cert.NotBefore, time.Minute)

	// Key is an unencrypted P-256 key matching the certificate
	ecKey, err := key.GetECDSAKey()
	require.NoError(t, err)
	assert.Equal(t, elliptic.P256(), ecKey.Curve)

	certKey, ok := x509Cert.PublicKey.(*ecdsa.PublicKey)
	require.True(t, ok)
	assert.True(t, certKey.Equal(ecKey.Public()))
}

func TestGenerateSelfSignedKeyPEMFormat(t *testing.T) {
	key, cert, err := GenerateSelfSigned("localhost", time.Hour)
	require.NoError(t, err)

	keyBlock, rest := pem.Decode(key)
	require.NotNil(t, keyBlock)
	assert.Equal(t, "PRIVATE KEY", keyBlock.Type)
	assert.Empty(t, rest)
	// Unencrypted: PKCS#8 parses without a passphrase
	_, err = x509.ParsePKCS8PrivateKey(keyBlock.Bytes)
	require.NoError(t, err)

	certBlock, rest := pem.Decode(cert)
	require.NotNil(t, certBlock)
	assert.Equal(t, "CERTIFICATE", certBlock.Type)
	assert.Empty(t, rest)
}

func TestGenerateSelfSignedIPCommonName(t *testing.T) {
	_, cert, err := GenerateSelfSigned("127.0.0.1", time.Hour)
	require.NoError(t, err)

	x509Cert, err := cert.GetX509Cert()
	require.NoError(t, err)
	require.Len(t, x509Cert.IPAddresses, 1)
	assert.Equal(t, "127.0.0.1", x509Cert.IPAddresses[0].String())
	assert.Empty(t, x509Cert.DNSNames)
}

func TestGenerateSelfSignedRejectsBadInput(t *testing.T) {
	_, _, err := GenerateSelfSigned("", time.Hour)
	assert.Error(t, err)

	_, _, err = GenerateSelfSigned("localhost", 0)
	assert.Error(t, err)

	_, _, err = GenerateSelfSigned("localhost", -time.Hour)
	assert.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	_, cert, err := GenerateSelfSigned("localhost", time.Hour)
	require.NoError(t, err)

	fingerprint, err := Fingerprint(cert)
	require.NoError(t, err)

	assert.Len(t, fingerprint, 64)
	assert.Equal(t, strings.ToUpper(fingerprint), fingerprint)
	assert.NotContains(t, fingerprint, ":")

	// Independently recompute over the DER bytes
	block, _ := pem.Decode(cert)
	require.NotNil(t, block)
	expected := sha256.Sum256(block.Bytes)
	assert.Equal(t, strings.ToUpper(hex.EncodeToString(expected[:])), fingerprint)
}

func TestFingerprintRejectsGarbage(t *testing.T) {
	_, err := Fingerprint([]byte("not a certificate"))
	assert.Error(t, err)

	_, err = Fingerprint(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: []byte{0x01, 0x02}}))
	assert.Error(t, err)
}

func TestVerifyCertificate(t *testing.T) {
	key, cert, err := GenerateSelfSigned("localhost", time.Hour)
	require.NoError(t, err)

	require.NoError(t, VerifyCertificate(key, cert, "localhost"))

	// Wrong expected CN
	err = VerifyCertificate(key, cert, "example.com")
	assert.Error(t, err)

	// Key from a different generation run does not match
	otherKey, _, err := GenerateSelfSigned("localhost", time.Hour)
	require.NoError(t, err)
	err = VerifyCertificate(otherKey, cert, "localhost")
	assert.Error(t, err)
}

func TestVerifyCertificateSEC1Key(t *testing.T) {
	key, cert, err := GenerateSelfSigned("localhost", time.Hour)
	require.NoError(t, err)

	// Re-encode the key in SEC1 form; verification accepts both
	ecKey, err := key.GetECDSAKey()
	require.NoError(t, err)
	sec1, err := x509.MarshalECPrivateKey(ecKey)
	require.NoError(t, err)
	sec1PEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: sec1})

	require.NoError(t, VerifyCertificate(sec1PEM, cert, "localhost"))
}

func TestTLSKeyRejectsNonECKeys(t *testing.T) {
	// An RSA-style PEM header is rejected outright
	_, err := NewTLSKey(pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: []byte{0x00}}))
	assert.Error(t, err)
}

func TestTLSCertRoundTrip(t *testing.T) {
	_, cert, err := GenerateSelfSigned("localhost", time.Hour)
	require.NoError(t, err)

	wrapped, err := NewTLSCert(cert)
	require.NoError(t, err)
	require.NoError(t, wrapped.Validate())

	expired, err := wrapped.IsExpired()
	require.NoError(t, err)
	assert.False(t, expired)
}

func TestAsTLSCertificate(t *testing.T) {
	key, cert, err := GenerateSelfSigned("localhost", time.Hour)
	require.NoError(t, err)

	tlsCert, err := key.AsTLSCertificate(cert)
	require.NoError(t, err)
	assert.NotEmpty(t, tlsCert.Certificate)
}
