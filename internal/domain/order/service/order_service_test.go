package service

import (
	"context"
	"testing"

	"villfresh_store/internal/domain/order/model"
	"villfresh_store/internal/domain/payment/gateway"
	productModel "villfresh_store/internal/domain/product/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockOrderRepository is a mock of the order repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(order *model.Order) error {
	args := m.Called(order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(id string) (*model.Order, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByUser(userID string) ([]model.Order, error) {
	args := m.Called(userID)
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAll(offset, limit int) ([]model.Order, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]model.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) UpdateStatus(id string, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) SetPaymentInfo(id, transactionID, intentURL, qrCode string) error {
	args := m.Called(id, transactionID, intentURL, qrCode)
	return args.Error(0)
}

func (m *MockOrderRepository) MarkPaid(id, gatewayTransactionID string) (bool, error) {
	args := m.Called(id, gatewayTransactionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) MarkFailed(id string) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockCatalog is a mock of the product lookup
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetByID(id string) (*productModel.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*productModel.Product), args.Error(1)
}

// MockGateway is a mock of the payment gateway client
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockGateway) InitiatePayment(ctx context.Context, req gateway.InitiateRequest) (*gateway.InitiateResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.InitiateResponse), args.Error(1)
}

func (m *MockGateway) CheckPaymentStatus(ctx context.Context, transactionID string) (*gateway.StatusResult, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.StatusResult), args.Error(1)
}

// MockNotifier records confirmation enqueues
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) EnqueueConfirmation(orderID, recipient string) {
	m.Called(orderID, recipient)
}

const testProductID = "8f14e45f-ceea-4e1b-8f3a-0c6d1a2b3c4d"

func inStockProduct() *productModel.Product {
	p := &productModel.Product{
		Name:     "Organic Rice",
		Price:    299,
		Category: productModel.CategoryRice,
		InStock:  true,
	}
	p.ID = testProductID
	return p
}

func checkoutInput(method string) CreateInput {
	return CreateInput{
		UserID: "user-1",
		Items: []model.OrderItem{
			{ProductID: testProductID, Name: "Organic Rice", Price: 299, Quantity: 1},
		},
		ShippingAddress: model.ShippingAddress{
			FullName: "Asha",
			Email:    "asha@example.com",
			Phone:    "9999999999",
			Address:  "12 Lake Road",
			City:     "Pune",
			State:    "MH",
			Pincode:  "411001",
		},
		PaymentMethod: method,
	}
}

func newTestService(repo *MockOrderRepository, catalog *MockCatalog, gw *MockGateway, n *MockNotifier) OrderService {
	var notifier Notifier
	if n != nil {
		notifier = n
	}
	return NewOrderService(repo, catalog, gw, notifier)
}

func TestOrderTotal(t *testing.T) {
	t.Run("Adds rounded 5 percent tax", func(t *testing.T) {
		items := []model.OrderItem{{Price: 299, Quantity: 1}}
		// 299 * 0.05 = 14.95, rounded to 15
		assert.Equal(t, 314.0, orderTotal(items))
	})

	t.Run("Quantity multiplies before tax", func(t *testing.T) {
		items := []model.OrderItem{{Price: 100, Quantity: 3}}
		assert.Equal(t, 315.0, orderTotal(items))
	})

	t.Run("Multiple lines", func(t *testing.T) {
		items := []model.OrderItem{
			{Price: 150, Quantity: 2},
			{Price: 99, Quantity: 1},
		}
		// subtotal 399, tax round(19.95) = 20
		assert.Equal(t, 419.0, orderTotal(items))
	})
}

func TestCreateOrder(t *testing.T) {
	t.Run("COD order confirms immediately and notifies", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockCatalog := new(MockCatalog)
		mockGw := new(MockGateway)
		mockNotifier := new(MockNotifier)
		svc := newTestService(mockRepo, mockCatalog, mockGw, mockNotifier)

		mockCatalog.On("GetByID", testProductID).Return(inStockProduct(), nil)
		mockRepo.On("Create", mock.MatchedBy(func(o *model.Order) bool {
			return o.Status == model.StatusConfirmed &&
				o.PaymentStatus == model.PaymentStatusPending &&
				o.PaymentGateway == model.GatewayCOD &&
				o.Total == 314
		})).Return(nil)
		mockNotifier.On("EnqueueConfirmation", mock.Anything, "asha@example.com").Return()

		result, err := svc.CreateOrder(context.Background(), checkoutInput(model.PaymentMethodCOD))
		assert.NoError(t, err)
		assert.False(t, result.RequiresPayment)
		assert.Equal(t, model.StatusConfirmed, result.Order.Status)
		mockRepo.AssertExpectations(t)
		mockNotifier.AssertExpectations(t)
		mockGw.AssertNotCalled(t, "InitiatePayment", mock.Anything, mock.Anything)
	})

	t.Run("UPI order initiates payment and stores gateway refs", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockCatalog := new(MockCatalog)
		mockGw := new(MockGateway)
		svc := newTestService(mockRepo, mockCatalog, mockGw, nil)

		mockCatalog.On("GetByID", testProductID).Return(inStockProduct(), nil)
		mockRepo.On("Create", mock.MatchedBy(func(o *model.Order) bool {
			return o.Status == model.StatusPending && o.PaymentGateway == model.GatewayPhonePe
		})).Return(nil)
		mockGw.On("InitiatePayment", mock.Anything, mock.MatchedBy(func(r gateway.InitiateRequest) bool {
			return r.Amount == 314 && r.Phone == "9999999999"
		})).Return(&gateway.InitiateResponse{
			RedirectURL:   "https://pay.example.com/r",
			TransactionID: "T1",
			QRCode:        "upi://pay",
		}, nil)
		mockRepo.On("SetPaymentInfo", mock.Anything, "T1", "https://pay.example.com/r", "upi://pay").Return(nil)

		input := checkoutInput(model.PaymentMethodUPI)
		input.UPIApp = "phonepe"

		result, err := svc.CreateOrder(context.Background(), input)
		assert.NoError(t, err)
		assert.True(t, result.RequiresPayment)
		assert.Equal(t, "https://pay.example.com/r", result.PaymentURL)
		assert.Equal(t, "upi://pay", result.QRCode)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Payment initiation failure rolls the order back", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockCatalog := new(MockCatalog)
		mockGw := new(MockGateway)
		svc := newTestService(mockRepo, mockCatalog, mockGw, nil)

		mockCatalog.On("GetByID", testProductID).Return(inStockProduct(), nil)
		mockRepo.On("Create", mock.Anything).Return(nil)
		mockGw.On("InitiatePayment", mock.Anything, mock.Anything).Return(nil, gateway.ErrPaymentInitiation)
		mockRepo.On("Delete", mock.Anything).Return(nil)

		_, err := svc.CreateOrder(context.Background(), checkoutInput(model.PaymentMethodUPI))
		assert.Error(t, err)

		var initErr *PaymentInitError
		assert.ErrorAs(t, err, &initErr)
		mockRepo.AssertCalled(t, "Delete", mock.Anything)
		mockRepo.AssertNotCalled(t, "SetPaymentInfo", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Out of stock blocks checkout", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockCatalog := new(MockCatalog)
		svc := newTestService(mockRepo, mockCatalog, new(MockGateway), nil)

		p := inStockProduct()
		p.InStock = false
		mockCatalog.On("GetByID", testProductID).Return(p, nil)

		_, err := svc.CreateOrder(context.Background(), checkoutInput(model.PaymentMethodCOD))

		var oos *OutOfStockError
		assert.ErrorAs(t, err, &oos)
		assert.Contains(t, oos.Items[0], "Out of stock")
		mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("Deleted product blocks checkout", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockCatalog := new(MockCatalog)
		svc := newTestService(mockRepo, mockCatalog, new(MockGateway), nil)

		mockCatalog.On("GetByID", testProductID).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.CreateOrder(context.Background(), checkoutInput(model.PaymentMethodCOD))

		var oos *OutOfStockError
		assert.ErrorAs(t, err, &oos)
		assert.Contains(t, oos.Items[0], "Product not found")
	})

	t.Run("Non-catalog product id skips the stock check", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockCatalog := new(MockCatalog)
		svc := newTestService(mockRepo, mockCatalog, new(MockGateway), nil)

		mockRepo.On("Create", mock.Anything).Return(nil)

		input := checkoutInput(model.PaymentMethodCOD)
		input.Items[0].ProductID = "seed-7"

		_, err := svc.CreateOrder(context.Background(), input)
		assert.NoError(t, err)
		mockCatalog.AssertNotCalled(t, "GetByID", mock.Anything)
	})
}

func newPendingUPIOrder() *model.Order {
	o := &model.Order{
		UserID:               "user-1",
		Total:                314,
		PaymentMethod:        model.PaymentMethodUPI,
		PaymentGateway:       model.GatewayPhonePe,
		PaymentTransactionID: "T1",
		Status:               model.StatusPending,
		PaymentStatus:        model.PaymentStatusPending,
	}
	o.ID = "order-1"
	return o
}

func TestCheckPaymentStatus(t *testing.T) {
	t.Run("Gateway SUCCESS never marks the order paid", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockGw := new(MockGateway)
		svc := newTestService(mockRepo, new(MockCatalog), mockGw, nil)

		mockRepo.On("GetByID", "order-1").Return(newPendingUPIOrder(), nil)
		mockGw.On("CheckPaymentStatus", mock.Anything, "T1").Return(&gateway.StatusResult{State: "SUCCESS"}, nil)

		result, err := svc.CheckPaymentStatus(context.Background(), "order-1", "user-1", "user")
		assert.NoError(t, err)
		assert.Equal(t, model.PaymentStatusPending, result.PaymentStatus)
		assert.Equal(t, "SUCCESS", result.GatewayStatus)
		mockRepo.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything)
	})

	t.Run("Gateway FAILED marks a pending order failed", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockGw := new(MockGateway)
		svc := newTestService(mockRepo, new(MockCatalog), mockGw, nil)

		mockRepo.On("GetByID", "order-1").Return(newPendingUPIOrder(), nil)
		mockGw.On("CheckPaymentStatus", mock.Anything, "T1").Return(&gateway.StatusResult{State: "FAILED"}, nil)
		mockRepo.On("MarkFailed", "order-1").Return(true, nil)

		result, err := svc.CheckPaymentStatus(context.Background(), "order-1", "user-1", "user")
		assert.NoError(t, err)
		assert.Equal(t, model.PaymentStatusFailed, result.PaymentStatus)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Settled order skips the gateway", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockGw := new(MockGateway)
		svc := newTestService(mockRepo, new(MockCatalog), mockGw, nil)

		order := newPendingUPIOrder()
		order.PaymentStatus = model.PaymentStatusPaid
		order.Status = model.StatusConfirmed
		mockRepo.On("GetByID", "order-1").Return(order, nil)

		result, err := svc.CheckPaymentStatus(context.Background(), "order-1", "user-1", "user")
		assert.NoError(t, err)
		assert.Equal(t, model.PaymentStatusPaid, result.PaymentStatus)
		mockGw.AssertNotCalled(t, "CheckPaymentStatus", mock.Anything, mock.Anything)
	})

	t.Run("Gateway error degrades gracefully", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockGw := new(MockGateway)
		svc := newTestService(mockRepo, new(MockCatalog), mockGw, nil)

		mockRepo.On("GetByID", "order-1").Return(newPendingUPIOrder(), nil)
		mockGw.On("CheckPaymentStatus", mock.Anything, "T1").Return(nil, gateway.ErrGatewayTimeout)

		result, err := svc.CheckPaymentStatus(context.Background(), "order-1", "user-1", "user")
		assert.NoError(t, err)
		assert.True(t, result.GatewayError)
		assert.Equal(t, model.PaymentStatusPending, result.PaymentStatus)
	})

	t.Run("Foreign order is denied", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		svc := newTestService(mockRepo, new(MockCatalog), new(MockGateway), nil)

		mockRepo.On("GetByID", "order-1").Return(newPendingUPIOrder(), nil)

		_, err := svc.CheckPaymentStatus(context.Background(), "order-1", "someone-else", "user")
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("Admin can poll any order", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		mockGw := new(MockGateway)
		svc := newTestService(mockRepo, new(MockCatalog), mockGw, nil)

		order := newPendingUPIOrder()
		order.PaymentStatus = model.PaymentStatusFailed
		mockRepo.On("GetByID", "order-1").Return(order, nil)

		result, err := svc.CheckPaymentStatus(context.Background(), "order-1", "admin-1", "admin")
		assert.NoError(t, err)
		assert.Equal(t, model.PaymentStatusFailed, result.PaymentStatus)
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	t.Run("Valid transition", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		svc := newTestService(mockRepo, new(MockCatalog), new(MockGateway), nil)

		order := newPendingUPIOrder()
		order.Status = model.StatusConfirmed
		mockRepo.On("GetByID", "order-1").Return(order, nil)
		mockRepo.On("UpdateStatus", "order-1", model.StatusShipped).Return(nil)

		updated, err := svc.UpdateOrderStatus("order-1", model.StatusShipped)
		assert.NoError(t, err)
		assert.Equal(t, model.StatusShipped, updated.Status)
	})

	t.Run("Unknown status is rejected", func(t *testing.T) {
		svc := newTestService(new(MockOrderRepository), new(MockCatalog), new(MockGateway), nil)

		_, err := svc.UpdateOrderStatus("order-1", "teleported")
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("Delivered order is terminal", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		svc := newTestService(mockRepo, new(MockCatalog), new(MockGateway), nil)

		order := newPendingUPIOrder()
		order.Status = model.StatusDelivered
		mockRepo.On("GetByID", "order-1").Return(order, nil)

		_, err := svc.UpdateOrderStatus("order-1", model.StatusShipped)
		assert.ErrorIs(t, err, ErrStatusFinalized)
	})

	t.Run("Cancelled order is terminal", func(t *testing.T) {
		mockRepo := new(MockOrderRepository)
		svc := newTestService(mockRepo, new(MockCatalog), new(MockGateway), nil)

		order := newPendingUPIOrder()
		order.Status = model.StatusCancelled
		mockRepo.On("GetByID", "order-1").Return(order, nil)

		_, err := svc.UpdateOrderStatus("order-1", model.StatusConfirmed)
		assert.ErrorIs(t, err, ErrStatusFinalized)
	})
}
