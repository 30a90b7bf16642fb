package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"villfresh_store/internal/domain/order/model"
	"villfresh_store/internal/domain/order/repository"
	"villfresh_store/internal/domain/payment/gateway"
	productModel "villfresh_store/internal/domain/product/model"
	"villfresh_store/pkg/logger"
	"villfresh_store/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentGateway is the slice of the PhonePe client checkout needs.
// Satisfied by *gateway.Client.
type PaymentGateway interface {
	Configured() bool
	InitiatePayment(ctx context.Context, req gateway.InitiateRequest) (*gateway.InitiateResponse, error)
	CheckPaymentStatus(ctx context.Context, transactionID string) (*gateway.StatusResult, error)
}

// ProductCatalog is the slice of the product repository used for stock
// checks. Satisfied by the product domain's repository.
type ProductCatalog interface {
	GetByID(id string) (*productModel.Product, error)
}

// Notifier queues order confirmation emails. Satisfied by
// *worker.NotificationPool.
type Notifier interface {
	EnqueueConfirmation(orderID, recipient string)
}

// CreateInput is a validated checkout submission.
type CreateInput struct {
	UserID          string
	Items           []model.OrderItem
	ShippingAddress model.ShippingAddress
	PaymentMethod   string // upi, cod
	UPIApp          string // phonepe, googlepay, paytm, bhim
	UPIID           string // VPA like name@paytm
}

// CreateResult tells the handler whether the customer still has to pay.
type CreateResult struct {
	Order           *model.Order
	RequiresPayment bool
	PaymentURL      string
	QRCode          string
}

// PaymentStatusResult is what the polling endpoint returns.
type PaymentStatusResult struct {
	PaymentStatus string
	OrderStatus   string
	Order         *model.Order
	GatewayStatus string // raw gateway state when a live check happened
	GatewayError  bool   // true when the gateway could not be reached
}

type OrderService interface {
	CreateOrder(ctx context.Context, input CreateInput) (*CreateResult, error)
	GetOrder(orderID, userID, role string) (*model.Order, error)
	GetUserOrders(userID string) ([]model.Order, error)
	GetAllOrders(page, limit int) ([]model.Order, int64, error)
	UpdateOrderStatus(orderID, status string) (*model.Order, error)
	CheckPaymentStatus(ctx context.Context, orderID, userID, role string) (*PaymentStatusResult, error)
}

type orderService struct {
	repo     repository.OrderRepository
	catalog  ProductCatalog
	gateway  PaymentGateway
	notifier Notifier
}

func NewOrderService(repo repository.OrderRepository, catalog ProductCatalog, gw PaymentGateway, notifier Notifier) OrderService {
	return &orderService{
		repo:     repo,
		catalog:  catalog,
		gateway:  gw,
		notifier: notifier,
	}
}

const taxRate = 0.05

// orderTotal sums the line items and adds the tax surcharge, with the tax
// portion rounded to the nearest rupee.
func orderTotal(items []model.OrderItem) float64 {
	subtotal := 0.0
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}
	return subtotal + math.Round(subtotal*taxRate)
}

// checkStock verifies every referenced product still exists and is in
// stock. Items whose product reference is not a UUID are skipped: those
// come from the frontend's static seed catalog and have no database row.
func (s *orderService) checkStock(items []model.OrderItem) []string {
	var outOfStock []string
	for _, item := range items {
		if _, err := uuid.Parse(item.ProductID); err != nil {
			logger.Log.Warn("skipping stock check for non-catalog product",
				zap.String("product_id", item.ProductID))
			continue
		}
		product, err := s.catalog.GetByID(item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				outOfStock = append(outOfStock, fmt.Sprintf("%s: Product not found", item.Name))
				continue
			}
			outOfStock = append(outOfStock, fmt.Sprintf("%s: %v", item.Name, err))
			continue
		}
		if !product.InStock {
			outOfStock = append(outOfStock, fmt.Sprintf("%s: Out of stock", product.Name))
		}
	}
	return outOfStock
}

func (s *orderService) CreateOrder(ctx context.Context, input CreateInput) (*CreateResult, error) {
	if outOfStock := s.checkStock(input.Items); len(outOfStock) > 0 {
		return nil, &OutOfStockError{Items: outOfStock}
	}

	order := &model.Order{
		UserID:            input.UserID,
		Items:             datatypes.NewJSONType(input.Items),
		Total:             orderTotal(input.Items),
		ShippingAddress:   datatypes.NewJSONType(input.ShippingAddress),
		PaymentMethod:     input.PaymentMethod,
		Status:            model.StatusPending,
		PaymentStatus:     model.PaymentStatusPending,
		EstimatedDelivery: time.Now().Add(72 * time.Hour),
	}
	if input.PaymentMethod == model.PaymentMethodUPI {
		order.PaymentGateway = model.GatewayPhonePe
		order.UPIID = input.UPIID
	} else {
		order.PaymentGateway = model.GatewayCOD
	}

	// COD needs no gateway round trip: confirm in the same insert.
	if input.PaymentMethod == model.PaymentMethodCOD {
		order.Status = model.StatusConfirmed
		if err := s.repo.Create(order); err != nil {
			return nil, err
		}
		if s.notifier != nil {
			s.notifier.EnqueueConfirmation(order.ID, order.Recipient())
		}
		return &CreateResult{Order: order, RequiresPayment: false}, nil
	}

	if err := s.repo.Create(order); err != nil {
		return nil, err
	}

	upiTarget := input.UPIApp
	if upiTarget == "" {
		upiTarget = input.UPIID
	}

	payment, err := s.gateway.InitiatePayment(ctx, gateway.InitiateRequest{
		OrderID:   order.ID,
		Amount:    order.Total,
		UserID:    input.UserID,
		Phone:     input.ShippingAddress.Phone,
		UPITarget: upiTarget,
	})
	if err != nil {
		// Compensating rollback: a pending order with no payment attached
		// would otherwise sit unpayable forever.
		if delErr := s.repo.Delete(order.ID); delErr != nil {
			logger.Log.Error("failed to roll back order after payment initiation failure",
				zap.String("order_id", order.ID), zap.Error(delErr))
		}
		return nil, &PaymentInitError{Err: err}
	}

	if err := s.repo.SetPaymentInfo(order.ID, payment.TransactionID, payment.RedirectURL, payment.QRCode); err != nil {
		return nil, err
	}
	order.PaymentTransactionID = payment.TransactionID
	order.PaymentIntentURL = payment.RedirectURL
	order.PaymentQRCode = payment.QRCode

	return &CreateResult{
		Order:           order,
		RequiresPayment: true,
		PaymentURL:      payment.RedirectURL,
		QRCode:          payment.QRCode,
	}, nil
}

// GetOrder enforces ownership: customers see their own orders, admins see
// everything.
func (s *orderService) GetOrder(orderID, userID, role string) (*model.Order, error) {
	order, err := s.repo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID && role != "admin" {
		return nil, ErrAccessDenied
	}
	return order, nil
}

func (s *orderService) GetUserOrders(userID string) ([]model.Order, error) {
	return s.repo.GetByUser(userID)
}

func (s *orderService) GetAllOrders(page, limit int) ([]model.Order, int64, error) {
	p := utils.Pagination{Page: page, Limit: limit}
	offset, limit := p.GetPageOffset()
	return s.repo.GetAll(offset, limit)
}

var validStatuses = map[string]bool{
	model.StatusPending:   true,
	model.StatusConfirmed: true,
	model.StatusShipped:   true,
	model.StatusDelivered: true,
	model.StatusCancelled: true,
}

func (s *orderService) UpdateOrderStatus(orderID, status string) (*model.Order, error) {
	if !validStatuses[status] {
		return nil, ErrInvalidStatus
	}

	order, err := s.repo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	// delivered and cancelled are terminal
	if order.Status == model.StatusDelivered || order.Status == model.StatusCancelled {
		return nil, ErrStatusFinalized
	}

	if err := s.repo.UpdateStatus(orderID, status); err != nil {
		return nil, err
	}
	order.Status = status
	return order, nil
}

// CheckPaymentStatus serves frontend polling. It reports the gateway's
// view but never confirms a payment itself: pending -> paid happens only
// through a verified webhook. The one mutation allowed here is marking a
// still-pending order failed when the gateway says FAILED.
func (s *orderService) CheckPaymentStatus(ctx context.Context, orderID, userID, role string) (*PaymentStatusResult, error) {
	order, err := s.GetOrder(orderID, userID, role)
	if err != nil {
		return nil, err
	}

	result := &PaymentStatusResult{
		PaymentStatus: order.PaymentStatus,
		OrderStatus:   order.Status,
		Order:         order,
	}

	if order.PaymentStatus == model.PaymentStatusPaid || order.PaymentStatus == model.PaymentStatusFailed {
		return result, nil
	}

	if order.PaymentTransactionID == "" || order.PaymentGateway != model.GatewayPhonePe {
		return result, nil
	}

	status, err := s.gateway.CheckPaymentStatus(ctx, order.PaymentTransactionID)
	if err != nil {
		logger.Log.Warn("payment status check failed",
			zap.String("order_id", order.ID), zap.Error(err))
		result.GatewayError = true
		return result, nil
	}

	result.GatewayStatus = status.State
	if status.State == "FAILED" && order.PaymentStatus == model.PaymentStatusPending {
		if _, err := s.repo.MarkFailed(order.ID); err != nil {
			return nil, err
		}
		order.PaymentStatus = model.PaymentStatusFailed
		result.PaymentStatus = model.PaymentStatusFailed
	}

	return result, nil
}
