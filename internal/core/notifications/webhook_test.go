package notifications

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendWebhookSignsPayload(t *testing.T) {
	payload := []byte(`{"event":"transaction.completed"}`)
	secret := "shh"

	var gotSignature string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSignature = r.Header.Get("X-Webhook-Signature")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, SendWebhook(srv.URL, payload, secret))
	assert.Equal(t, payload, gotBody)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), gotSignature)
}

func TestSendWebhookConsumerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := SendWebhook(srv.URL, []byte(`{}`), "shh")
	assert.ErrorContains(t, err, "502")
}
