package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"travel-booking-service/internal/util"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.chapa.co/v1"

// ErrNoCredential is returned when no secret key is configured.
var ErrNoCredential = errors.New("chapa secret key not configured")

// NetworkError wraps a transport-level failure (connect error, timeout).
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("chapa %s request failed: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RejectedError is returned when the gateway reports a non-success status on
// initialization. It carries the remote message and payload through to the
// caller.
type RejectedError struct {
	Message string
	Data    json.RawMessage
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return "chapa rejected the transaction"
	}
	return fmt.Sprintf("chapa rejected the transaction: %s", e.Message)
}

// Config holds the gateway credentials and transport settings
type Config struct {
	SecretKey string
	BaseURL   string
	Timeout   time.Duration
}

// Client wraps the Chapa transaction API
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Chapa client
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}

	return &Client{
		secretKey:  cfg.SecretKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     util.GetLogger(),
	}
}

// Customization is the gateway's checkout page branding block
type Customization struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// InitializeRequest is the gateway's transaction/initialize contract. Field
// names must match the remote API exactly.
type InitializeRequest struct {
	Amount        string        `json:"amount"`
	Currency      string        `json:"currency"`
	Email         string        `json:"email"`
	FirstName     string        `json:"first_name"`
	LastName      string        `json:"last_name"`
	PhoneNumber   string        `json:"phone_number"`
	TxRef         string        `json:"tx_ref"`
	ReturnURL     string        `json:"return_url"`
	CallbackURL   string        `json:"callback_url"`
	Customization Customization `json:"customization"`
}

// InitializeResult carries the checkout data returned on success
type InitializeResult struct {
	CheckoutURL   string
	TransactionID string
}

// VerifyResult carries the remote verification status and raw payload
type VerifyResult struct {
	Status  string
	Message string
	Data    json.RawMessage
}

type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type initializeData struct {
	CheckoutURL string `json:"checkout_url"`
	ID          string `json:"id"`
}

// Initialize creates a hosted checkout transaction at the gateway
func (c *Client) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	ctx, span := util.StartSpan(ctx, "ChapaClient.Initialize")
	defer span.End()

	if strings.TrimSpace(c.secretKey) == "" {
		return nil, ErrNoCredential
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal initialize request: %w", err)
	}

	start := time.Now()
	resp, err := c.do(ctx, http.MethodPost, c.baseURL+"/transaction/initialize", bytes.NewReader(body))
	util.GatewayRequestLatency.WithLabelValues("initialize").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, &NetworkError{Op: "initialize", Err: err}
	}
	defer resp.Body.Close()

	apiResp := decodeResponse(resp)
	if apiResp.Status != "success" {
		c.logger.Warn("Chapa rejected initialization",
			zap.String("tx_ref", req.TxRef),
			zap.String("message", apiResp.Message))
		return nil, &RejectedError{Message: apiResp.Message, Data: apiResp.Data}
	}

	var data initializeData
	if len(apiResp.Data) > 0 {
		if err := json.Unmarshal(apiResp.Data, &data); err != nil {
			return nil, fmt.Errorf("failed to decode checkout data: %w", err)
		}
	}

	c.logger.Info("Chapa transaction initialized",
		zap.String("tx_ref", req.TxRef),
		zap.String("checkout_url", data.CheckoutURL))

	return &InitializeResult{
		CheckoutURL:   data.CheckoutURL,
		TransactionID: data.ID,
	}, nil
}

// Verify queries the gateway for the current state of a transaction. A
// non-success remote status is a normal result, not an error.
func (c *Client) Verify(ctx context.Context, txRef string) (*VerifyResult, error) {
	ctx, span := util.StartSpan(ctx, "ChapaClient.Verify")
	defer span.End()

	if strings.TrimSpace(c.secretKey) == "" {
		return nil, ErrNoCredential
	}

	start := time.Now()
	resp, err := c.do(ctx, http.MethodGet, c.baseURL+"/transaction/verify/"+txRef, nil)
	util.GatewayRequestLatency.WithLabelValues("verify").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, &NetworkError{Op: "verify", Err: err}
	}
	defer resp.Body.Close()

	apiResp := decodeResponse(resp)
	return &VerifyResult{
		Status:  apiResp.Status,
		Message: apiResp.Message,
		Data:    apiResp.Data,
	}, nil
}

func (c *Client) do(ctx context.Context, method, url string, body *bytes.Reader) (*http.Response, error) {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, url, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, url, nil)
	}
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}

// decodeResponse reads the gateway body. Anything that does not decode as the
// expected JSON envelope is treated as a failed status, matching how the
// gateway reports errors with non-JSON bodies.
func decodeResponse(resp *http.Response) apiResponse {
	apiResp := apiResponse{Status: "failed"}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		return apiResp
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return apiResponse{Status: "failed"}
	}
	return apiResp
}
