package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"villfresh_store/internal/domain/order/model"
	"villfresh_store/internal/domain/order/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, input service.CreateInput) (*service.CreateResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CreateResult), args.Error(1)
}

func (m *MockOrderService) GetOrder(orderID, userID, role string) (*model.Order, error) {
	args := m.Called(orderID, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) GetUserOrders(userID string) ([]model.Order, error) {
	args := m.Called(userID)
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) GetAllOrders(page, limit int) ([]model.Order, int64, error) {
	args := m.Called(page, limit)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderService) UpdateOrderStatus(orderID, status string) (*model.Order, error) {
	args := m.Called(orderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) CheckPaymentStatus(ctx context.Context, orderID, userID, role string) (*service.PaymentStatusResult, error) {
	args := m.Called(ctx, orderID, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PaymentStatusResult), args.Error(1)
}

func newOrderRouter(svc service.OrderService, userID, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("role", role)
	})
	h := NewOrderHandler(svc)
	r.POST("/api/orders", h.CreateOrder)
	return r
}

func postOrder(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const validOrderBody = `{
	"items": [{"productId": "1", "name": "Brown Rice", "price": 299, "quantity": 1}],
	"shippingAddress": {
		"fullName": "Asha Rao", "phone": "9999999999", "address": "12 Main Rd",
		"city": "Chennai", "state": "TN", "pincode": "600001"
	},
	"paymentMethod": "cod"
}`

func TestCreateOrderEndpoint(t *testing.T) {
	t.Run("COD order returns 201 without payment step", func(t *testing.T) {
		mockSvc := new(MockOrderService)
		order := &model.Order{PaymentMethod: model.PaymentMethodCOD, Status: model.StatusConfirmed, Total: 314}
		mockSvc.On("CreateOrder", mock.Anything, mock.Anything).Return(&service.CreateResult{
			Order:           order,
			RequiresPayment: false,
		}, nil)

		w := postOrder(newOrderRouter(mockSvc, "user-1", "user"), validOrderBody)

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp struct {
			Code int `json:"code"`
			Data struct {
				Message         string `json:"message"`
				RequiresPayment bool   `json:"requiresPayment"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 0, resp.Code)
		assert.Equal(t, "Order created successfully", resp.Data.Message)
		assert.False(t, resp.Data.RequiresPayment)
	})

	t.Run("UPI order returns 201 with payment redirect", func(t *testing.T) {
		mockSvc := new(MockOrderService)
		order := &model.Order{PaymentMethod: model.PaymentMethodUPI, Status: model.StatusPending}
		mockSvc.On("CreateOrder", mock.Anything, mock.Anything).Return(&service.CreateResult{
			Order:           order,
			RequiresPayment: true,
			PaymentURL:      "https://pay.example.com/redirect",
			QRCode:          "upi://pay?pa=merchant",
		}, nil)

		body := `{
			"items": [{"productId": "1", "name": "Brown Rice", "price": 299, "quantity": 1}],
			"shippingAddress": {
				"fullName": "Asha Rao", "phone": "9999999999", "address": "12 Main Rd",
				"city": "Chennai", "state": "TN", "pincode": "600001"
			},
			"paymentMethod": "upi", "upiApp": "phonepe"
		}`
		w := postOrder(newOrderRouter(mockSvc, "user-1", "user"), body)

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp struct {
			Data struct {
				RequiresPayment bool   `json:"requiresPayment"`
				PaymentURL      string `json:"paymentUrl"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Data.RequiresPayment)
		assert.Equal(t, "https://pay.example.com/redirect", resp.Data.PaymentURL)
	})

	t.Run("Out of stock returns 400 with item list", func(t *testing.T) {
		mockSvc := new(MockOrderService)
		mockSvc.On("CreateOrder", mock.Anything, mock.Anything).
			Return(nil, &service.OutOfStockError{Items: []string{"Brown Rice: Out of stock"}})

		w := postOrder(newOrderRouter(mockSvc, "user-1", "user"), validOrderBody)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "outOfStockItems")
	})

	t.Run("Invalid payment method fails validation", func(t *testing.T) {
		mockSvc := new(MockOrderService)
		body := `{
			"items": [{"productId": "1", "name": "Brown Rice", "price": 299, "quantity": 1}],
			"shippingAddress": {
				"fullName": "Asha Rao", "phone": "9999999999", "address": "12 Main Rd",
				"city": "Chennai", "state": "TN", "pincode": "600001"
			},
			"paymentMethod": "card"
		}`
		w := postOrder(newOrderRouter(mockSvc, "user-1", "user"), body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockSvc.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})
}
