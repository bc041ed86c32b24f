package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"strconv"
	"testing"
	"time"
)

func signBody(body []byte, timestamp, signingKey string) string {
	baseString := fmt.Sprintf("v0:%s:%s", timestamp, string(body))
	h := hmac.New(sha256.New, []byte(signingKey))
	h.Write([]byte(baseString))
	return "v0=" + fmt.Sprintf("%x", h.Sum(nil))
}

func TestValidateSlackRequest(t *testing.T) {
	signingKey := "test-signing-key"
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	body := []byte(`{"type":"url_verification","challenge":"test"}`)
	validSig := signBody(body, timestamp, signingKey)

	tests := []struct {
		name      string
		body      []byte
		timestamp string
		signature string
		sigKey    string
		want      bool
	}{
		{
			name:      "valid signature",
			body:      body,
			timestamp: timestamp,
			signature: validSig,
			sigKey:    signingKey,
			want:      true,
		},
		{
			name:      "invalid signature",
			body:      body,
			timestamp: timestamp,
			signature: "v0=invalidsig",
			sigKey:    signingKey,
			want:      false,
		},
		{
			name:      "wrong signing key",
			body:      body,
			timestamp: timestamp,
			signature: validSig,
			sigKey:    "wrong-key",
			want:      false,
		},
		{
			name:      "tampered body",
			body:      []byte(`{"type":"event_callback"}`),
			timestamp: timestamp,
			signature: validSig,
			sigKey:    signingKey,
			want:      false,
		},
		{
			name:      "old timestamp",
			body:      body,
			timestamp: strconv.FormatInt(time.Now().Unix()-400, 10),
			signature: validSig,
			sigKey:    signingKey,
			want:      false,
		},
		{
			name:      "invalid timestamp format",
			body:      body,
			timestamp: "not-a-number",
			signature: validSig,
			sigKey:    signingKey,
			want:      false,
		},
		{
			name:      "empty signature",
			body:      body,
			timestamp: timestamp,
			signature: "",
			sigKey:    signingKey,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateSlackRequest(tt.body, tt.timestamp, tt.signature, tt.sigKey)
			if got != tt.want {
				t.Errorf("ValidateSlackRequest() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateSlackRequestTimestampFreshness(t *testing.T) {
	signingKey := "test-key"
	body := []byte("test")
	now := time.Now().Unix()

	recentTS := strconv.FormatInt(now, 10)
	if !ValidateSlackRequest(body, recentTS, signBody(body, recentTS, signingKey), signingKey) {
		t.Error("ValidateSlackRequest() failed with recent timestamp")
	}

	// Just past the five-minute replay window
	oldTS := strconv.FormatInt(now-301, 10)
	if ValidateSlackRequest(body, oldTS, signBody(body, oldTS, signingKey), signingKey) {
		t.Error("ValidateSlackRequest() should reject timestamp older than 5 minutes")
	}
}
