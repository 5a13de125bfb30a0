package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
)

var (
	// ErrNoSecret indicates the channel secret was never configured. This is a
	// deployment fault, not a bad request.
	ErrNoSecret = errors.New("line: channel secret not configured")

	// ErrSignatureMismatch indicates the supplied signature does not match the
	// digest of the received body.
	ErrSignatureMismatch = errors.New("line: webhook signature mismatch")
)

// VerifySignature checks the x-line-signature value against an HMAC-SHA256
// digest of the verbatim request body. The body must be the exact bytes as
// received; re-serializing a parsed payload can reorder keys and break the
// digest.
func VerifySignature(channelSecret string, body []byte, signature string) error {
	if channelSecret == "" {
		return ErrNoSecret
	}

	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	// hmac.Equal is constant time.
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureMismatch
	}
	return nil
}
