package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fleetbackend/internal/config"
	"fleetbackend/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	defaultTokenURL   = "https://accounts.zoho.in/oauth/v2/token"
	defaultPaymentURL = "https://payments.zoho.in/api/v1/paymentlinks"

	tokenRefreshAttempts = 3
)

// Client talks to Zoho Payments. Access tokens are short-lived and refreshed
// from the stored long-lived refresh token before each payment-link call.
type Client struct {
	Config     config.ZohoConfig
	HTTPClient *http.Client

	// Overridable endpoints and backoff for tests.
	TokenURL   string
	PaymentURL string
	Backoff    time.Duration
}

func NewClient(cfg config.ZohoConfig) *Client {
	return &Client{
		Config:     cfg,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		TokenURL:   defaultTokenURL,
		PaymentURL: defaultPaymentURL,
		Backoff:    500 * time.Millisecond,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// PaymentLinkRequest asks the gateway for a hosted payment page. ReferenceID
// is our payment transaction id and comes back on the webhook.
type PaymentLinkRequest struct {
	Amount      decimal.Decimal
	Currency    string
	Description string
	ReferenceID string
}

// PaymentLink is the gateway's answer: its own payment id plus the redirect
// URL the client is sent to.
type PaymentLink struct {
	PaymentID string
	URL       string
}

// RefreshAccessToken exchanges the refresh token for a short-lived access
// token. Transport failures and non-2xx responses are retried with linear
// backoff; exhaustion surfaces as a GatewayError.
func (c *Client) RefreshAccessToken(ctx context.Context) (string, error) {
	form := url.Values{
		"refresh_token": {c.Config.RefreshToken},
		"client_id":     {c.Config.ClientID},
		"client_secret": {c.Config.ClientSecret},
		"grant_type":    {"refresh_token"},
	}

	var lastErr error
	for attempt := 1; attempt <= tokenRefreshAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", domain.GatewayError{Op: "token refresh", Attempts: attempt - 1, Err: ctx.Err()}
			case <-time.After(time.Duration(attempt-1) * c.Backoff):
			}
		}

		token, err := c.requestToken(ctx, form)
		if err == nil {
			return token, nil
		}
		lastErr = err
	}
	return "", domain.GatewayError{Op: "token refresh", Attempts: tokenRefreshAttempts, Err: lastErr}
}

func (c *Client) requestToken(ctx context.Context, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned empty access token")
	}
	return tr.AccessToken, nil
}

// CreatePaymentLink requests a hosted payment page. Amount is sent in major
// units with the caller-chosen reference id as the receipt.
func (c *Client) CreatePaymentLink(ctx context.Context, accessToken string, plr PaymentLinkRequest) (PaymentLink, error) {
	payload, err := json.Marshal(map[string]any{
		"account_id":       c.Config.AccountID,
		"amount":           plr.Amount.StringFixed(2),
		"currency":         plr.Currency,
		"description":      plr.Description,
		"reference_number": plr.ReferenceID,
	})
	if err != nil {
		return PaymentLink{}, fmt.Errorf("encode payment link request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.PaymentURL, bytes.NewReader(payload))
	if err != nil {
		return PaymentLink{}, fmt.Errorf("build payment link request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Zoho-oauthtoken "+accessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return PaymentLink{}, domain.GatewayError{Op: "payment link", Attempts: 1, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return PaymentLink{}, domain.GatewayError{Op: "payment link", Attempts: 1, Err: err}
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return PaymentLink{}, domain.GatewayError{
			Op:       "payment link",
			Attempts: 1,
			Err:      fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var out struct {
		PaymentLinks struct {
			PaymentLinkID string `json:"payment_link_id"`
			URL           string `json:"url"`
		} `json:"payment_links"`
		PaymentID string `json:"payment_id"`
		URL       string `json:"url"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return PaymentLink{}, domain.GatewayError{Op: "payment link", Attempts: 1, Err: fmt.Errorf("decode response: %w", err)}
	}

	link := PaymentLink{PaymentID: out.PaymentLinks.PaymentLinkID, URL: out.PaymentLinks.URL}
	if link.PaymentID == "" {
		link.PaymentID = out.PaymentID
	}
	if link.URL == "" {
		link.URL = out.URL
	}
	if link.URL == "" {
		return PaymentLink{}, domain.GatewayError{Op: "payment link", Attempts: 1, Err: fmt.Errorf("response carried no payment url")}
	}
	return link, nil
}

// VerifySignature checks a hex-encoded HMAC-SHA-256 of the raw webhook body.
func VerifySignature(rawBody []byte, signatureHex, signingKey string) bool {
	mac := hmac.New(sha256.New, []byte(signingKey))
	mac.Write(rawBody)
	expected := mac.Sum(nil)

	got, err := hex.DecodeString(strings.TrimSpace(signatureHex))
	if err != nil {
		return false
	}
	return hmac.Equal(expected, got)
}
