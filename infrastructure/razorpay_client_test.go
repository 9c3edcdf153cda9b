package infrastructure

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signPayment(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestRazorpayClient_VerifySignature(t *testing.T) {
	client := NewRazorpayClient("key", "secret", "https://api.razorpay.test")

	t.Run("accepts the gateway's signature", func(t *testing.T) {
		sig := signPayment("secret", "order_abc", "pay_1")
		assert.True(t, client.VerifySignature("order_abc", "pay_1", sig))
	})

	t.Run("rejects a signature under the wrong key", func(t *testing.T) {
		sig := signPayment("other-secret", "order_abc", "pay_1")
		assert.False(t, client.VerifySignature("order_abc", "pay_1", sig))
	})

	t.Run("rejects a signature for a different payment", func(t *testing.T) {
		sig := signPayment("secret", "order_abc", "pay_1")
		assert.False(t, client.VerifySignature("order_abc", "pay_2", sig))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		assert.False(t, client.VerifySignature("order_abc", "pay_1", "not-hex"))
		assert.False(t, client.VerifySignature("order_abc", "pay_1", ""))
	})
}

func TestRazorpayClient_CreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("posts the order and returns the gateway id", func(t *testing.T) {
		var got struct {
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
			Receipt  string `json:"receipt"`
		}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "key", user)
			assert.Equal(t, "secret", pass)
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "order_abc"})
		}))
		defer server.Close()

		client := NewRazorpayClient("key", "secret", server.URL)
		orderID, err := client.CreateOrder(ctx, 5000, "wallet:user-1")
		assert.NoError(t, err)
		assert.Equal(t, "order_abc", orderID)
		assert.Equal(t, int64(5000), got.Amount)
		assert.Equal(t, "INR", got.Currency)
		assert.Equal(t, "wallet:user-1", got.Receipt)
	})

	t.Run("non-200 surfaces as an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"description":"Authentication failed"}}`, http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewRazorpayClient("key", "wrong", server.URL)
		_, err := client.CreateOrder(ctx, 5000, "wallet:user-1")
		assert.Error(t, err)
	})

	t.Run("empty order id rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{})
		}))
		defer server.Close()

		client := NewRazorpayClient("key", "secret", server.URL)
		_, err := client.CreateOrder(ctx, 5000, "wallet:user-1")
		assert.Error(t, err)
	})
}
