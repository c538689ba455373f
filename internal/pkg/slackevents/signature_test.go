package slackevents

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	secret := "8f742231b10e8888abcd99yyyzzz85a5"
	body := []byte(`{"type":"event_callback","event_id":"Ev123"}`)
	now := time.Unix(1700000000, 0)
	ts := fmt.Sprintf("%d", now.Unix())

	sig := ComputeSignature(secret, ts, body)

	assert.True(t, VerifySignature(secret, body, ts, sig, now))
}

func TestVerifySignatureRejectsTampering(t *testing.T) {
	secret := "abc"
	body := []byte(`{"event_id":"E1"}`)
	now := time.Unix(1700000000, 0)
	ts := fmt.Sprintf("%d", now.Unix())
	sig := ComputeSignature(secret, ts, body)

	// flip a single character anywhere in the signature
	for i := len(SignatureVersion) + 1; i < len(sig); i++ {
		flipped := []byte(sig)
		if flipped[i] == 'a' {
			flipped[i] = 'b'
		} else {
			flipped[i] = 'a'
		}
		assert.False(t, VerifySignature(secret, body, ts, string(flipped), now), "flipped index %d", i)
	}

	// tampered body
	assert.False(t, VerifySignature(secret, []byte(`{"event_id":"E2"}`), ts, sig, now))

	// wrong secret
	assert.False(t, VerifySignature("abd", body, ts, sig, now))
}

func TestVerifySignatureRejectsStaleTimestamps(t *testing.T) {
	secret := "abc"
	body := []byte(`{}`)
	now := time.Unix(1700000000, 0)

	for _, drift := range []time.Duration{301 * time.Second, -301 * time.Second, 24 * time.Hour} {
		ts := fmt.Sprintf("%d", now.Add(drift).Unix())
		sig := ComputeSignature(secret, ts, body)
		assert.False(t, VerifySignature(secret, body, ts, sig, now), "drift %v", drift)
	}

	// exactly at the window edge is still accepted
	ts := fmt.Sprintf("%d", now.Add(-300*time.Second).Unix())
	sig := ComputeSignature(secret, ts, body)
	assert.True(t, VerifySignature(secret, body, ts, sig, now))
}

func TestVerifySignatureRejectsGarbage(t *testing.T) {
	now := time.Unix(1700000000, 0)
	ts := fmt.Sprintf("%d", now.Unix())

	assert.False(t, VerifySignature("", []byte("x"), ts, "v0=00", now))
	assert.False(t, VerifySignature("abc", []byte("x"), ts, "", now))
	assert.False(t, VerifySignature("abc", []byte("x"), "not-a-number", "v0=00", now))
}
