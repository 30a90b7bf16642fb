package repository

import (
	"villfresh_store/internal/domain/order/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *model.Order) error
	GetByID(id string) (*model.Order, error)
	GetByUser(userID string) ([]model.Order, error)
	GetAll(offset, limit int) ([]model.Order, int64, error)
	UpdateStatus(id string, status string) error
	SetPaymentInfo(id, transactionID, intentURL, qrCode string) error
	MarkPaid(id, gatewayTransactionID string) (bool, error)
	MarkFailed(id string) (bool, error)
	Delete(id string) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *model.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) GetByID(id string) (*model.Order, error) {
	var order model.Order
	if err := r.db.Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByUser(userID string) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetAll(offset, limit int) ([]model.Order, int64, error) {
	var total int64
	if err := r.db.Model(&model.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []model.Order
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) UpdateStatus(id string, status string) error {
	result := r.db.Model(&model.Order{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepository) SetPaymentInfo(id, transactionID, intentURL, qrCode string) error {
	return r.db.Model(&model.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"payment_transaction_id": transactionID,
		"payment_intent_url":     intentURL,
		"payment_qr_code":        qrCode,
	}).Error
}

// MarkPaid performs the conditional pending -> paid transition in one
// statement. The WHERE clause is the idempotence guard: concurrent webhook
// redeliveries race on it and exactly one caller sees RowsAffected == 1.
func (r *orderRepository) MarkPaid(id, gatewayTransactionID string) (bool, error) {
	updates := map[string]interface{}{
		"payment_status": model.PaymentStatusPaid,
		"status":         model.StatusConfirmed,
	}
	if gatewayTransactionID != "" {
		updates["payment_transaction_id"] = gatewayTransactionID
	}

	result := r.db.Model(&model.Order{}).
		Where("id = ? AND payment_status = ?", id, model.PaymentStatusPending).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkFailed is the same conditional update for the failure branch; a
// webhook and a status poll racing still produce a single transition.
func (r *orderRepository) MarkFailed(id string) (bool, error) {
	result := r.db.Model(&model.Order{}).
		Where("id = ? AND payment_status = ?", id, model.PaymentStatusPending).
		Update("payment_status", model.PaymentStatusFailed)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes an order whose payment initiation failed (compensating
// rollback right after creation).
func (r *orderRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&model.Order{}).Error
}
