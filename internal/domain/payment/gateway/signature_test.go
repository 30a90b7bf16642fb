package gateway

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignRequest(t *testing.T) {
	saltKey := "test-salt-key"
	saltIndex := "1"

	t.Run("Matches manual recipe", func(t *testing.T) {
		payload := base64.StdEncoding.EncodeToString([]byte(`{"merchantId":"M1"}`))
		path := "https://example.com/api/payments/webhook"

		sum := sha256.Sum256([]byte(payload + path + saltKey))
		expected := hex.EncodeToString(sum[:]) + "###" + saltIndex

		assert.Equal(t, expected, SignRequest(payload, path, saltKey, saltIndex))
	})

	t.Run("Status check signs path with empty payload", func(t *testing.T) {
		path := "/pg/v1/status/M1/txn-1"

		sum := sha256.Sum256([]byte(path + saltKey))
		expected := hex.EncodeToString(sum[:]) + "###" + saltIndex

		assert.Equal(t, expected, SignRequest("", path, saltKey, saltIndex))
	})

	t.Run("Signature carries the salt index suffix", func(t *testing.T) {
		sig := SignRequest("cGF5bG9hZA==", "/pg/v1/pay", saltKey, "2")
		assert.True(t, strings.HasSuffix(sig, "###2"))
	})
}

func TestVerifyCallback(t *testing.T) {
	saltKey := "test-salt-key"
	saltIndex := "1"
	body := []byte(`{"response":"eyJzdGF0ZSI6IlNVQ0NFU1MifQ=="}`)

	sign := func(raw []byte) string {
		payload := base64.StdEncoding.EncodeToString(raw)
		sum := sha256.Sum256([]byte(payload + saltKey))
		return hex.EncodeToString(sum[:]) + "###" + saltIndex
	}

	t.Run("Valid signature verifies", func(t *testing.T) {
		assert.True(t, VerifyCallback(body, sign(body), saltKey, saltIndex))
	})

	t.Run("Single byte change in body fails", func(t *testing.T) {
		header := sign(body)
		tampered := append([]byte(nil), body...)
		tampered[0] ^= 0x01
		assert.False(t, VerifyCallback(tampered, header, saltKey, saltIndex))
	})

	t.Run("Single character change in header fails", func(t *testing.T) {
		header := []byte(sign(body))
		if header[0] == 'a' {
			header[0] = 'b'
		} else {
			header[0] = 'a'
		}
		assert.False(t, VerifyCallback(body, string(header), saltKey, saltIndex))
	})

	t.Run("Wrong salt key fails", func(t *testing.T) {
		assert.False(t, VerifyCallback(body, sign(body), "other-salt", saltIndex))
	})

	t.Run("Wrong salt index fails", func(t *testing.T) {
		assert.False(t, VerifyCallback(body, sign(body), saltKey, "2"))
	})

	t.Run("Empty body or header fails", func(t *testing.T) {
		assert.False(t, VerifyCallback(nil, sign(body), saltKey, saltIndex))
		assert.False(t, VerifyCallback(body, "", saltKey, saltIndex))
	})
}
