package payment

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
	"time"

	"vastra-be/internal/logger"

	"go.uber.org/zap"
)

const razorpayBaseURL = "https://api.razorpay.com/v1"

type razorpayGateway struct {
	keyID         string
	keySecret     string
	webhookSecret string
	baseURL       string
	httpClient    *http.Client
}

// NewRazorpayGateway builds the production gateway adapter. The base URL is
// fixed; tests construct the struct through NewRazorpayGatewayWithBaseURL.
func NewRazorpayGateway(keyID, keySecret, webhookSecret string) Gateway {
	return NewRazorpayGatewayWithBaseURL(keyID, keySecret, webhookSecret, razorpayBaseURL)
}

func NewRazorpayGatewayWithBaseURL(keyID, keySecret, webhookSecret, baseURL string) Gateway {
	if keyID == "" || keySecret == "" {
		logger.L().Warn("Razorpay credentials are empty")
	}
	return &razorpayGateway{
		keyID:         keyID,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
		baseURL:       baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (g *razorpayGateway) KeyID() string {
	return g.keyID
}

func (g *razorpayGateway) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	req.SetBasicAuth(g.keyID, g.keySecret)
	req.Header.Add("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read razorpay response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		logger.L().Error("Razorpay returned non-success status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return fmt.Errorf("razorpay error: %s", string(bodyBytes))
	}

	return json.Unmarshal(bodyBytes, out)
}

func (g *razorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (*GatewayOrder, error) {
	log := logger.L().With(
		zap.String("receipt", receipt),
		zap.Int64("amount", amount),
		zap.String("currency", currency),
	)

	body := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		body["notes"] = notes
	}

	log.Info("creating razorpay order")

	var res struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Receipt  string `json:"receipt"`
		Status   string `json:"status"`
	}
	if err := g.post(ctx, "/orders", body, &res); err != nil {
		log.Error("razorpay order creation failed", zap.Error(err))
		return nil, err
	}

	log.Info("razorpay order created", zap.String("razorpay_order_id", res.ID))

	return &GatewayOrder{
		ID:       res.ID,
		Amount:   res.Amount,
		Currency: res.Currency,
		Receipt:  res.Receipt,
		Status:   res.Status,
	}, nil
}

func (g *razorpayGateway) Refund(ctx context.Context, paymentID string, amount int64, notes map[string]string) (*RefundResult, error) {
	log := logger.L().With(
		zap.String("razorpay_payment_id", paymentID),
		zap.Int64("amount", amount),
	)

	body := map[string]interface{}{
		"amount": amount,
	}
	if len(notes) > 0 {
		body["notes"] = notes
	}

	log.Info("initiating razorpay refund")

	var res struct {
		ID     string `json:"id"`
		Amount int64  `json:"amount"`
		Status string `json:"status"`
		Speed  string `json:"speed_requested"`
	}
	if err := g.post(ctx, "/payments/"+paymentID+"/refund", body, &res); err != nil {
		log.Error("razorpay refund failed", zap.Error(err))
		return nil, err
	}

	log.Info("razorpay refund created", zap.String("refund_id", res.ID))

	return &RefundResult{
		ID:       res.ID,
		Amount:   res.Amount,
		Status:   res.Status,
		SpeedReq: res.Speed,
	}, nil
}

// signHex computes the hex HMAC-SHA256 of payload under the given secret.
func signHex(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func (g *razorpayGateway) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	expected := signHex(g.keySecret, []byte(orderID+"|"+paymentID))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (g *razorpayGateway) VerifyWebhookSignature(body []byte, signature string) bool {
	expected := signHex(g.webhookSecret, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
