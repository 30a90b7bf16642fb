package handler

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"villfresh_store/internal/domain/payment/service"
	"villfresh_store/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockWebhookService struct {
	mock.Mock
}

func (m *MockWebhookService) Process(payload map[string]interface{}) (string, error) {
	args := m.Called(payload)
	return args.String(0), args.Error(1)
}

const (
	testSaltKey   = "test-salt-key"
	testSaltIndex = "1"
)

func signBody(body []byte) string {
	payload := base64.StdEncoding.EncodeToString(body)
	sum := sha256.Sum256([]byte(payload + testSaltKey))
	return hex.EncodeToString(sum[:]) + "###" + testSaltIndex
}

func newWebhookRouter(svc service.WebhookService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewWebhookHandler(svc, config.PhonePeConfig{
		SaltKey:   testSaltKey,
		SaltIndex: testSaltIndex,
	})
	r.POST("/api/payments/webhook", h.Webhook)
	return r
}

func postWebhook(r *gin.Engine, body []byte, xVerify string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if xVerify != "" {
		req.Header.Set("X-VERIFY", xVerify)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookEndpoint(t *testing.T) {
	body := []byte(`{"data":{"merchantTransactionId":"order-1","state":"SUCCESS","amount":31400}}`)

	t.Run("Valid signature processes and acknowledges", func(t *testing.T) {
		mockSvc := new(MockWebhookService)
		mockSvc.On("Process", mock.Anything).Return(service.OutcomePaid, nil)
		r := newWebhookRouter(mockSvc)

		w := postWebhook(r, body, signBody(body))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"success":true`)
		mockSvc.AssertExpectations(t)
	})

	t.Run("Missing signature is rejected with 400", func(t *testing.T) {
		mockSvc := new(MockWebhookService)
		r := newWebhookRouter(mockSvc)

		w := postWebhook(r, body, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockSvc.AssertNotCalled(t, "Process", mock.Anything)
	})

	t.Run("Invalid signature is rejected with 401", func(t *testing.T) {
		mockSvc := new(MockWebhookService)
		r := newWebhookRouter(mockSvc)

		w := postWebhook(r, body, "deadbeef###1")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid webhook signature")
		mockSvc.AssertNotCalled(t, "Process", mock.Anything)
	})

	t.Run("Tampered body fails verification", func(t *testing.T) {
		mockSvc := new(MockWebhookService)
		r := newWebhookRouter(mockSvc)

		header := signBody(body)
		tampered := bytes.Replace(body, []byte("31400"), []byte("31401"), 1)
		w := postWebhook(r, tampered, header)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockSvc.AssertNotCalled(t, "Process", mock.Anything)
	})

	t.Run("Malformed JSON is rejected with 400", func(t *testing.T) {
		mockSvc := new(MockWebhookService)
		r := newWebhookRouter(mockSvc)

		bad := []byte(`{not json`)
		w := postWebhook(r, bad, signBody(bad))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown order maps to 404", func(t *testing.T) {
		mockSvc := new(MockWebhookService)
		mockSvc.On("Process", mock.Anything).Return("", service.ErrOrderNotFound)
		r := newWebhookRouter(mockSvc)

		w := postWebhook(r, body, signBody(body))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Amount mismatch maps to 400", func(t *testing.T) {
		mockSvc := new(MockWebhookService)
		mockSvc.On("Process", mock.Anything).Return("", service.ErrAmountMismatch)
		r := newWebhookRouter(mockSvc)

		w := postWebhook(r, body, signBody(body))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Amount mismatch")
	})

	t.Run("Internal processing error still acknowledges with 200", func(t *testing.T) {
		mockSvc := new(MockWebhookService)
		mockSvc.On("Process", mock.Anything).Return("", assert.AnError)
		r := newWebhookRouter(mockSvc)

		w := postWebhook(r, body, signBody(body))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})
}
