// Package main (cmd/provisioner) implements the development certificate
// provisioning CLI. Running it with no arguments generates a fresh ECDSA P-256
// key pair and a self-signed certificate for CN=localhost, valid for 14 days,
// writes them as key.pem and cert.pem beside the executable, and persists the
// certificate's SHA-256 fingerprint to cert.sha256 for client-side pinning.
//
// The two-week validity is not arbitrary: browsers only accept self-signed
// certificates pinned via WebTransport serverCertificateHashes when the
// certificate uses an ECDSA key and is valid for at most 14 days. Re-running
// the tool overwrites all three files, so clients must refresh their pin from
// cert.sha256 after each run.
//
// Additional commands:
//
//	fingerprint  print the SHA-256 digest of an existing certificate file
//	verify       check that a key and certificate belong together
//	serve        run a localhost HTTPS server exposing the fingerprint,
//	             for end-to-end pin verification
package main
