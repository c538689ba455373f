package slackevents

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

const (
	// SignatureVersion is Slack's signing scheme version prefix.
	SignatureVersion = "v0"

	// MaxTimestampSkew is how far a request timestamp may drift from our
	// clock before the request is treated as a replay.
	MaxTimestampSkew = 300 * time.Second
)

// VerifySignature checks the X-Slack-Signature / X-Slack-Request-Timestamp
// pair against the raw, unmodified request body. The signature base string
// is "v0:<timestamp>:<body>" and the comparison is constant-time. Stale
// timestamps fail regardless of signature correctness.
func VerifySignature(signingSecret string, body []byte, timestampHeader, signatureHeader string, now time.Time) bool {
	secret := strings.TrimSpace(signingSecret)
	sig := strings.TrimSpace(signatureHeader)
	if secret == "" || sig == "" {
		return false
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(timestampHeader), 10, 64)
	if err != nil {
		return false
	}
	skew := now.Unix() - ts
	if skew < 0 {
		skew = -skew
	}
	if time.Duration(skew)*time.Second > MaxTimestampSkew {
		return false
	}

	expected := ComputeSignature(secret, timestampHeader, body)
	return hmac.Equal([]byte(expected), []byte(sig))
}

// ComputeSignature builds the "v0=<hex hmac>" value for a request. Exported
// so tests and outbound tooling can sign payloads the same way Slack does.
func ComputeSignature(signingSecret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(signingSecret))
	mac.Write([]byte(SignatureVersion))
	mac.Write([]byte(":"))
	mac.Write([]byte(strings.TrimSpace(timestamp)))
	mac.Write([]byte(":"))
	mac.Write(body)

	return SignatureVersion + "=" + hex.EncodeToString(mac.Sum(nil))
}
