package messenger

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // The platform signs webhook bodies with SHA-1.
	"encoding/hex"
	"fmt"
	"strings"

	apperrors "github.com/cricbot/cricbot-go/internal/errors"
)

// SignatureHeader is the request header carrying the body signature.
const SignatureHeader = "X-Hub-Signature"

const signaturePrefix = "sha1="

// VerifySignature checks the X-Hub-Signature header value against an
// HMAC-SHA1 of the raw request body keyed with the app secret.
// The comparison is constant-time.
func VerifySignature(appSecret string, body []byte, header string) error {
	if header == "" {
		return fmt.Errorf("missing signature header: %w", apperrors.ErrInvalidSignature)
	}
	if !strings.HasPrefix(header, signaturePrefix) {
		return fmt.Errorf("malformed signature header %q: %w", header, apperrors.ErrInvalidSignature)
	}

	provided, err := hex.DecodeString(strings.TrimPrefix(header, signaturePrefix))
	if err != nil {
		return fmt.Errorf("signature is not valid hex: %w", apperrors.ErrInvalidSignature)
	}

	mac := hmac.New(sha1.New, []byte(appSecret))
	mac.Write(body)
	expected := mac.Sum(nil)

	if !hmac.Equal(provided, expected) {
		return apperrors.ErrInvalidSignature
	}
	return nil
}

// SignBody computes the signature header value for a body. Used by tests
// and by tooling that replays webhook deliveries.
func SignBody(appSecret string, body []byte) string {
	mac := hmac.New(sha1.New, []byte(appSecret))
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}
