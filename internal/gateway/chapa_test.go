package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(Config{
		SecretKey: "test-secret",
		BaseURL:   url,
		Timeout:   2 * time.Second,
	})
}

func TestInitializeSuccess(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","message":"Hosted Link","data":{"checkout_url":"https://pay/x","id":"ext1"}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	result, err := client.Initialize(context.Background(), InitializeRequest{
		Amount:      "150.00",
		Currency:    "ETB",
		Email:       "a@b.com",
		FirstName:   "Abe",
		LastName:    "Kebede",
		PhoneNumber: "0911000000",
		TxRef:       "booking-42-deadbeef",
		Customization: Customization{
			Title:       "Payment",
			Description: "Payment for booking id 42",
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "https://pay/x", result.CheckoutURL)
	assert.Equal(t, "ext1", result.TransactionID)

	assert.Equal(t, "Bearer test-secret", gotAuth)
	assert.Equal(t, "/transaction/initialize", gotPath)
	assert.Equal(t, "150.00", gotBody["amount"])
	assert.Equal(t, "a@b.com", gotBody["email"])
	assert.Equal(t, "booking-42-deadbeef", gotBody["tx_ref"])
	assert.Equal(t, "0911000000", gotBody["phone_number"])
	custom, ok := gotBody["customization"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Payment", custom["title"])
}

func TestInitializeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"failed","message":"Invalid currency","data":{"code":"bad_currency"}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	result, err := client.Initialize(context.Background(), InitializeRequest{TxRef: "booking-1-abc"})

	assert.Nil(t, result)
	var rejected *RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, "Invalid currency", rejected.Message)
	assert.JSONEq(t, `{"code":"bad_currency"}`, string(rejected.Data))
}

func TestInitializeNoCredential(t *testing.T) {
	client := NewClient(Config{SecretKey: "  "})

	_, err := client.Initialize(context.Background(), InitializeRequest{})
	assert.ErrorIs(t, err, ErrNoCredential)

	_, err = client.Verify(context.Background(), "booking-1-abc")
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestInitializeNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.Initialize(context.Background(), InitializeRequest{})

	var network *NetworkError
	require.True(t, errors.As(err, &network))
	assert.Equal(t, "initialize", network.Op)
}

func TestVerifySuccess(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","data":{"amount":"150.00","tx_ref":"booking-42-deadbeef"}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	result, err := client.Verify(context.Background(), "booking-42-deadbeef")

	require.NoError(t, err)
	assert.Equal(t, "/transaction/verify/booking-42-deadbeef", gotPath)
	assert.Equal(t, "success", result.Status)
	assert.Contains(t, string(result.Data), "150.00")
}

func TestVerifyRemoteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"failed","message":"transaction not found"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	result, err := client.Verify(context.Background(), "booking-42-deadbeef")

	require.NoError(t, err)
	assert.Equal(t, "failed", result.Status)
	assert.Equal(t, "transaction not found", result.Message)
}

func TestVerifyNonJSONBodyTreatedAsFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>gateway error</html>"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	result, err := client.Verify(context.Background(), "booking-42-deadbeef")

	require.NoError(t, err)
	assert.Equal(t, "failed", result.Status)
}
