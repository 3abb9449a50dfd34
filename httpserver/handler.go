package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ruteri/dev-cert-provisioner/cryptoutils"
)

// FingerprintResponse is the body returned by the fingerprint endpoint.
type FingerprintResponse struct {
	// Digest is the serving certificate's SHA-256 fingerprint,
	// uppercase hex with no separators.
	Digest string `json:"digest"`
}

// Handler serves the public API of the pin-check server. It holds the
// fingerprint of the certificate the server is terminating TLS with,
// letting clients confirm their pinned digest against a live endpoint.
type Handler struct {
	fingerprint string
	log         *slog.Logger
}

// NewHandler creates a handler for the given PEM-encoded serving
// certificate.
func NewHandler(cert cryptoutils.TLSCert, log *slog.Logger) (*Handler, error) {
	fingerprint, err := cert.Fingerprint()
	if err != nil {
		return nil, err
	}

	return &Handler{
		fingerprint: fingerprint,
		log:         log,
	}, nil
}

// Fingerprint returns the digest the handler serves.
func (h *Handler) Fingerprint() string {
	return h.fingerprint
}

// HandleFingerprint responds with the serving certificate's SHA-256
// fingerprint as JSON.
func (h *Handler) HandleFingerprint(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(FingerprintResponse{Digest: h.fingerprint}); err != nil {
		h.log.Error("Failed to encode fingerprint response", "err", err)
	}
}
