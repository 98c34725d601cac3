package sigclient_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juanwalsh/backendtest/internal/infra/sigclient"
	"github.com/juanwalsh/backendtest/pkg/hmacsig"
)

func TestPostJSONSignsRequest(t *testing.T) {
	const secret = "test-secret"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		timestamp := r.Header.Get("X-Timestamp")
		signature := r.Header.Get("X-Casino-Signature")

		assert.NotEmpty(t, timestamp)
		assert.True(t, hmacsig.Verify(secret, timestamp, body, signature))
		assert.Equal(t, "req-42", r.Header.Get("X-Request-Id"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]string
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "abc", payload["token"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"userId":1}`))
	}))
	defer srv.Close()

	c := sigclient.New(srv.URL, secret, "X-Casino-Signature")

	var out struct {
		Success bool  `json:"success"`
		UserID  int64 `json:"userId"`
	}

	err := c.PostJSON(context.Background(), "/getBalance", "req-42", map[string]string{"token": "abc"}, &out)
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Equal(t, int64(1), out.UserID)
}

func TestPostJSONMapsNon2xxToUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"INSUFFICIENT_BALANCE","message":"Insufficient balance for this operation"}`))
	}))
	defer srv.Close()

	c := sigclient.New(srv.URL, "secret", "X-Casino-Signature")

	err := c.PostJSON(context.Background(), "/debit", "", map[string]string{}, nil)

	var upstream *sigclient.UpstreamError
	require.ErrorAs(t, err, &upstream)

	assert.Equal(t, http.StatusBadRequest, upstream.StatusCode)
	assert.Equal(t, "INSUFFICIENT_BALANCE", upstream.Code)
}
