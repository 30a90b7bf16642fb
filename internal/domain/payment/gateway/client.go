package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"time"

	"villfresh_store/internal/pkg/config"
	"villfresh_store/pkg/logger"
	"villfresh_store/pkg/metrics"

	"go.uber.org/zap"
)

const (
	payPath    = "/pg/v1/pay"
	statusPath = "/pg/v1/status"

	// A single attempt with a bounded timeout; webhook redelivery on the
	// gateway side is the only retry mechanism in this flow.
	requestTimeout = 10 * time.Second
)

// Client talks to the PhonePe payment gateway. It is read-only with
// respect to orders: initiation and status checks never mutate state.
type Client struct {
	cfg        config.PhonePeConfig
	httpClient *http.Client
}

// NewClient builds a gateway client from explicit configuration. An
// unconfigured client is still constructable so COD-only deployments
// boot; InitiatePayment refuses to run without credentials.
func NewClient(cfg config.PhonePeConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Configured reports whether merchant credentials are present.
func (c *Client) Configured() bool {
	return c.cfg.MerchantID != "" && c.cfg.SaltKey != ""
}

// InitiateRequest carries everything needed to start a UPI payment.
type InitiateRequest struct {
	OrderID   string  // becomes merchantTransactionId
	Amount    float64 // rupees
	UserID    string
	Phone     string
	UPITarget string // app name or VPA, may be empty
}

// InitiateResponse is the normalized outcome of a pay call.
type InitiateResponse struct {
	RedirectURL   string
	TransactionID string
	QRCode        string
}

// StatusResult is the gateway-reported payment state. Telemetry only:
// callers must never mark an order paid from it.
type StatusResult struct {
	State         string // SUCCESS, PENDING, FAILED
	Code          string
	Message       string
	TransactionID string
}

type paymentInstrument struct {
	Type      string `json:"type"`
	TargetApp string `json:"targetApp"`
	VPA       string `json:"vpa,omitempty"`
}

type payRequest struct {
	MerchantID            string            `json:"merchantId"`
	MerchantTransactionID string            `json:"merchantTransactionId"`
	MerchantUserID        string            `json:"merchantUserId"`
	Amount                int64             `json:"amount"` // paise
	RedirectURL           string            `json:"redirectUrl"`
	RedirectMode          string            `json:"redirectMode"`
	CallbackURL           string            `json:"callbackUrl"`
	MobileNumber          string            `json:"mobileNumber"`
	PaymentInstrument     paymentInstrument `json:"paymentInstrument"`
}

type redirectInfo struct {
	URL string `json:"url"`
}

type instrumentResponse struct {
	Type         string        `json:"type"`
	RedirectInfo *redirectInfo `json:"redirectInfo"`
	QRData       string        `json:"qrData"`
}

// payResponse covers the shapes the gateway has been seen returning. The
// data field is either a nested object or a base64-encoded JSON blob of
// the same overall shape.
type payResponse struct {
	Success            bool                `json:"success"`
	Code               string              `json:"code"`
	Message            string              `json:"message"`
	Data               json.RawMessage     `json:"data"`
	InstrumentResponse *instrumentResponse `json:"instrumentResponse"`
}

type payData struct {
	MerchantTransactionID string              `json:"merchantTransactionId"`
	TransactionID         string              `json:"transactionId"`
	InstrumentResponse    *instrumentResponse `json:"instrumentResponse"`
}

// InitiatePayment signs and submits a pay request, returning the redirect
// URL the customer must visit. Single attempt, no retries.
func (c *Client) InitiatePayment(ctx context.Context, req InitiateRequest) (*InitiateResponse, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	targetApp, vpa := resolveUPITarget(req.UPITarget)

	body := payRequest{
		MerchantID:            c.cfg.MerchantID,
		MerchantTransactionID: req.OrderID,
		MerchantUserID:        req.UserID,
		Amount:                int64(math.Round(req.Amount * 100)), // paise, rounded: plain truncation can lose a paisa
		RedirectURL:           c.cfg.RedirectURL,
		RedirectMode:          "REDIRECT",
		CallbackURL:           c.cfg.CallbackURL,
		MobileNumber:          req.Phone,
		PaymentInstrument: paymentInstrument{
			Type:      "UPI_INTENT",
			TargetApp: targetApp,
			VPA:       vpa,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentInitiation, err)
	}
	base64Payload := base64.StdEncoding.EncodeToString(payload)
	xVerify := SignRequest(base64Payload, c.cfg.CallbackURL, c.cfg.SaltKey, c.cfg.SaltIndex)

	wrapper, _ := json.Marshal(map[string]string{"request": base64Payload})

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+payPath, bytes.NewReader(wrapper))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentInitiation, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-VERIFY", xVerify)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			metrics.GetGlobalCollector().RecordGatewayCall("initiate", "timeout")
			return nil, fmt.Errorf("%w: %v", ErrGatewayTimeout, err)
		}
		metrics.GetGlobalCollector().RecordGatewayCall("initiate", "error")
		return nil, fmt.Errorf("%w: %v", ErrPaymentInitiation, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.GetGlobalCollector().RecordGatewayCall("initiate", "error")
		return nil, fmt.Errorf("%w: %v", ErrPaymentInitiation, err)
	}

	var outer payResponse
	if err := json.Unmarshal(raw, &outer); err != nil {
		metrics.GetGlobalCollector().RecordGatewayCall("initiate", "error")
		return nil, fmt.Errorf("%w: malformed gateway response", ErrPaymentInitiation)
	}

	// The gateway sometimes base64-encodes the interesting part under
	// data. Decode if so; fall back to the outer object otherwise.
	effective := outer
	if decoded, ok := decodeNestedData(outer.Data); ok {
		effective = decoded
	}

	httpOK := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !httpOK || (!effective.Success && effective.Code != "PAYMENT_INITIATED") {
		msg := effective.Message
		if msg == "" {
			msg = outer.Message
		}
		if msg == "" {
			msg = "payment initiation rejected"
		}
		metrics.GetGlobalCollector().RecordGatewayCall("initiate", "rejected")
		return nil, fmt.Errorf("%w: %s", ErrPaymentInitiation, msg)
	}

	result := extractInitiateResponse(effective, outer)
	if result.RedirectURL == "" {
		metrics.GetGlobalCollector().RecordGatewayCall("initiate", "error")
		return nil, fmt.Errorf("%w: redirect URL not received", ErrPaymentInitiation)
	}

	metrics.GetGlobalCollector().RecordGatewayCall("initiate", "ok")
	logger.Log.Info("payment initiated",
		zap.String("order_id", req.OrderID),
		zap.String("target_app", targetApp),
	)
	return result, nil
}

// CheckPaymentStatus polls the gateway for a transaction's state. The
// signature covers the literal request path, there is no body to encode.
func (c *Client) CheckPaymentStatus(ctx context.Context, transactionID string) (*StatusResult, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	path := fmt.Sprintf("%s/%s/%s", statusPath, c.cfg.MerchantID, transactionID)
	xVerify := SignRequest("", path, c.cfg.SaltKey, c.cfg.SaltIndex)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentStatus, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-VERIFY", xVerify)
	httpReq.Header.Set("X-MERCHANT-ID", c.cfg.MerchantID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			metrics.GetGlobalCollector().RecordGatewayCall("status", "timeout")
			return nil, fmt.Errorf("%w: %v", ErrGatewayTimeout, err)
		}
		metrics.GetGlobalCollector().RecordGatewayCall("status", "error")
		return nil, fmt.Errorf("%w: %v", ErrPaymentStatus, err)
	}
	defer resp.Body.Close()

	var parsed struct {
		Success bool   `json:"success"`
		Code    string `json:"code"`
		Message string `json:"message"`
		Data    struct {
			MerchantTransactionID string `json:"merchantTransactionId"`
			State                 string `json:"state"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.GetGlobalCollector().RecordGatewayCall("status", "error")
		return nil, fmt.Errorf("%w: malformed gateway response", ErrPaymentStatus)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !parsed.Success {
		msg := parsed.Message
		if msg == "" {
			msg = "status check rejected"
		}
		metrics.GetGlobalCollector().RecordGatewayCall("status", "rejected")
		return nil, fmt.Errorf("%w: %s", ErrPaymentStatus, msg)
	}

	metrics.GetGlobalCollector().RecordGatewayCall("status", "ok")
	return &StatusResult{
		State:         parsed.Data.State,
		Code:          parsed.Code,
		Message:       parsed.Message,
		TransactionID: parsed.Data.MerchantTransactionID,
	}, nil
}

// decodeNestedData interprets data as a base64-encoded JSON blob when it
// is a JSON string, returning the decoded response.
func decodeNestedData(data json.RawMessage) (payResponse, bool) {
	var encoded string
	if len(data) == 0 || json.Unmarshal(data, &encoded) != nil {
		return payResponse{}, false
	}
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return payResponse{}, false
	}
	var decoded payResponse
	if err := json.Unmarshal(blob, &decoded); err != nil {
		return payResponse{}, false
	}
	return decoded, true
}

// extractInitiateResponse walks the known nesting shapes for the redirect
// URL, QR payload and transaction id. The upstream contract has been
// inconsistent about where these live; every observed spot is checked.
func extractInitiateResponse(effective, outer payResponse) *InitiateResponse {
	out := &InitiateResponse{}

	candidates := []*instrumentResponse{}
	var effData, outerData payData
	if len(effective.Data) > 0 && json.Unmarshal(effective.Data, &effData) == nil {
		candidates = append(candidates, effData.InstrumentResponse)
	}
	candidates = append(candidates, effective.InstrumentResponse)
	if len(outer.Data) > 0 && json.Unmarshal(outer.Data, &outerData) == nil {
		candidates = append(candidates, outerData.InstrumentResponse)
	}

	for _, ir := range candidates {
		if ir == nil {
			continue
		}
		if out.RedirectURL == "" && ir.RedirectInfo != nil {
			out.RedirectURL = ir.RedirectInfo.URL
		}
		if out.QRCode == "" {
			out.QRCode = ir.QRData
		}
	}

	if effData.MerchantTransactionID != "" {
		out.TransactionID = effData.MerchantTransactionID
	} else {
		out.TransactionID = outerData.MerchantTransactionID
	}

	return out
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
