/*
Package httpserver implements a small HTTPS server that terminates TLS
with a provisioned development certificate.

Its purpose is end-to-end pin verification: a client that has pinned
the digest from cert.sha256 can connect, accept the self-signed
certificate by its hash, and compare the pin against the live
/api/public/fingerprint endpoint.

Endpoints:

	GET /api/public/fingerprint   serving certificate's SHA-256 digest (JSON)
	GET /livez                    liveness check
	GET /readyz                   readiness check
	GET /drain                    mark not ready, for load balancer draining
	GET /undrain                  mark ready again

An optional separate metrics listener serves Prometheus metrics, and
/debug exposes pprof when enabled.
*/
package httpserver
