package api

import (
	"bytes"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/juanwalsh/backendtest/pkg/hmacsig"
)

const (
	requestIDHeader = "X-Request-Id"
	timestampHeader = "X-Timestamp"

	// maxTimestampDrift bounds how stale a signed request may be.
	maxTimestampDrift = 5 * time.Minute

	maxBodyBytes = 1 << 20 // 1MB cap
)

// requestID ensures every request carries an id: inbound ids are honored,
// otherwise one is minted. The id is echoed in the response header and
// passed on explicitly via the request header (no ambient context).
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}

		w.Header().Set(requestIDHeader, id)

		next.ServeHTTP(w, r)
	})
}

// verifySignature checks the HMAC request signature: the named header must
// carry hex(HMAC-SHA256(secret, timestamp:body)) and the timestamp must be
// within the allowed drift. The body is re-buffered for the handler.
func verifySignature(sigHeader, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			signature := r.Header.Get(sigHeader)
			timestamp := r.Header.Get(timestampHeader)

			if signature == "" || timestamp == "" {
				writeErrorCode(w, http.StatusUnauthorized, "INVALID_SIGNATURE", "HMAC signature validation failed")
				return
			}

			reqTime, err := strconv.ParseInt(timestamp, 10, 64)
			if err != nil {
				writeErrorCode(w, http.StatusUnauthorized, "INVALID_SIGNATURE", "HMAC signature validation failed")
				return
			}

			drift := time.Now().UnixMilli() - reqTime
			if math.Abs(float64(drift)) > float64(maxTimestampDrift.Milliseconds()) {
				writeErrorCode(w, http.StatusUnauthorized, "INVALID_SIGNATURE", "HMAC signature validation failed")
				return
			}

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
			if err != nil {
				writeErrorCode(w, http.StatusBadRequest, "VALIDATION_ERROR", "unreadable request body")
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))

			if !hmacsig.Verify(secret, timestamp, body, signature) {
				writeErrorCode(w, http.StatusUnauthorized, "INVALID_SIGNATURE", "HMAC signature validation failed")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
