/*
Package cryptoutils provides the cryptographic operations behind
development certificate provisioning.

It wraps the standard library's ECDSA and X.509 support with a small,
typed API for the three things the provisioner needs:

  - GenerateSelfSigned - issues an ECDSA P-256 key pair and a
    self-signed certificate with a configurable common name and
    validity window
  - Fingerprint - computes a certificate's SHA-256 fingerprint over
    its DER encoding, formatted as uppercase hex for pinning
  - VerifyCertificate - checks that a key, certificate, and expected
    common name all belong together

PEM material is passed around as the typed wrappers TLSKey and
TLSCert, whose constructors validate structure up front so later
stages can assume well-formed input.

# Fingerprint format

Fingerprints are the SHA-256 digest of the certificate's DER bytes,
hex-encoded and uppercased with no separators (64 characters). This
matches the digest clients use for certificate pinning, and what
openssl prints for `x509 -noout -fingerprint -sha256` once the label
and colons are stripped.
*/
package cryptoutils
