package gateway

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
)

// PhonePe's X-VERIFY scheme is a bare SHA-256 over concatenated strings,
// formatted "<hex digest>###<salt index>". The outbound (signing) and
// inbound (verification) recipes differ on purpose: requests hash the
// payload together with a route component, callbacks hash the payload and
// salt only. Both sides must match the gateway byte-for-byte, so they are
// kept as two separate functions.

// SignRequest computes the X-VERIFY value for an outbound call.
// base64Payload is the base64-encoded request body; path is the callback
// URL for pay requests or the literal request path for status checks (the
// status endpoint has no body, so its "payload" is the empty string).
func SignRequest(base64Payload, path, saltKey, saltIndex string) string {
	sum := sha256.Sum256([]byte(base64Payload + path + saltKey))
	return hex.EncodeToString(sum[:]) + "###" + saltIndex
}

// VerifyCallback checks a webhook's X-VERIFY header against the raw
// request bytes. The inbound recipe omits the route component. Returns
// false on any failure, never panics.
func VerifyCallback(rawBody []byte, header, saltKey, saltIndex string) bool {
	if len(rawBody) == 0 || header == "" {
		return false
	}

	base64Payload := base64.StdEncoding.EncodeToString(rawBody)
	sum := sha256.Sum256([]byte(base64Payload + saltKey))
	expected := hex.EncodeToString(sum[:]) + "###" + saltIndex

	return subtle.ConstantTimeCompare([]byte(expected), []byte(header)) == 1
}
