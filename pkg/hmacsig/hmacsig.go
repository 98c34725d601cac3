// Package hmacsig implements the request signature shared by the casino and
// provider services: hex-encoded HMAC-SHA256 over "timestamp:body".
package hmacsig

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign returns the hex signature for the given unix-millisecond timestamp
// string and raw request body.
func Sign(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte(":"))
	mac.Write(body)

	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches the payload in constant time.
func Verify(secret, timestamp string, body []byte, signature string) bool {
	expected := Sign(secret, timestamp, body)

	return hmac.Equal([]byte(expected), []byte(signature))
}
