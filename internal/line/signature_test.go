package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "channel-secret"
	body := []byte(`{"events":[]}`)

	t.Run("accepts matching signature", func(t *testing.T) {
		require.NoError(t, VerifySignature(secret, body, sign(secret, body)))
	})

	t.Run("rejects wrong signature", func(t *testing.T) {
		err := VerifySignature(secret, body, sign("other-secret", body))
		assert.ErrorIs(t, err, ErrSignatureMismatch)
	})

	t.Run("rejects tampered body", func(t *testing.T) {
		signature := sign(secret, body)
		err := VerifySignature(secret, []byte(`{"events":[{}]}`), signature)
		assert.ErrorIs(t, err, ErrSignatureMismatch)
	})

	t.Run("rejects empty signature", func(t *testing.T) {
		err := VerifySignature(secret, body, "")
		assert.ErrorIs(t, err, ErrSignatureMismatch)
	})

	t.Run("fails closed without secret", func(t *testing.T) {
		err := VerifySignature("", body, sign(secret, body))
		assert.ErrorIs(t, err, ErrNoSecret)
	})
}
