/*
Package provisioner generates short-lived self-signed TLS certificates
for local development and persists them beside the certificate's
SHA-256 fingerprint for client-side pinning.

A run produces exactly three files in the output directory:

	key.pem      unencrypted ECDSA P-256 private key (PKCS#8 PEM)
	cert.pem     self-signed X.509 certificate (PEM)
	cert.sha256  uppercase hex SHA-256 fingerprint of cert.pem,
	             no separators, no trailing newline

and prints two lines to standard output:

	Successfully generated certificate files
	Digest: <64 uppercase hex characters>

The fingerprint file always corresponds to the certificate from the
same run; all three files are regenerated and overwritten on every
invocation. Provisioning is a one-shot action with no retry logic -
any failure aborts with the underlying error.
*/
package provisioner
