package httpserver

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ruteri/dev-cert-provisioner/cryptoutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleFingerprint(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, cert, err := cryptoutils.GenerateSelfSigned("localhost", time.Hour)
	require.NoError(t, err)

	expected, err := cert.Fingerprint()
	require.NoError(t, err)

	handler, err := NewHandler(cert, logger)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/public/fingerprint", nil)
	w := httptest.NewRecorder()

	handler.HandleFingerprint(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body FingerprintResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, expected, body.Digest)
}

func TestNewHandlerRejectsInvalidCert(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewHandler(cryptoutils.TLSCert("not a certificate"), logger)
	assert.Error(t, err)
}
