package model

import (
	"time"
	baseModel "villfresh_store/pkg/model"

	"gorm.io/datatypes"
)

// OrderItem is a snapshot of a product at order time. Later catalog edits
// never change what the customer bought.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// ShippingAddress is the structured delivery address captured at checkout.
type ShippingAddress struct {
	FullName string `json:"fullName"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

// Order is the order aggregate. The UUID primary key doubles as the
// merchantTransactionId sent to PhonePe, which is how webhook deliveries
// correlate back to the order.
type Order struct {
	baseModel.BaseModel
	UserID               string                              `gorm:"type:uuid;index:idx_orders_user_created,priority:1" json:"userId"`
	Items                datatypes.JSONType[[]OrderItem]     `gorm:"type:jsonb" json:"items"`
	Total                float64                             `json:"total"`
	ShippingAddress      datatypes.JSONType[ShippingAddress] `gorm:"type:jsonb" json:"shippingAddress"`
	PaymentMethod        string                              `json:"paymentMethod"` // upi, cod
	UPIID                string                              `json:"upiId,omitempty"`
	Status               string                              `gorm:"default:'pending'" json:"status"`        // pending, confirmed, shipped, delivered, cancelled
	PaymentStatus        string                              `gorm:"default:'pending'" json:"paymentStatus"` // pending, paid, failed, refunded
	PaymentGateway       string                              `json:"paymentGateway"`                         // phonepe, cod
	PaymentTransactionID string                              `json:"paymentTransactionId,omitempty"`
	PaymentIntentURL     string                              `json:"paymentIntentUrl,omitempty"`
	PaymentQRCode        string                              `json:"paymentQrCode,omitempty"`
	EstimatedDelivery    time.Time                           `json:"estimatedDelivery"`
}

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"

	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"

	PaymentMethodUPI = "upi"
	PaymentMethodCOD = "cod"

	GatewayPhonePe = "phonepe"
	GatewayCOD     = "cod"
)

// Recipient returns the address to notify, empty when the customer gave
// no email.
func (o *Order) Recipient() string {
	return o.ShippingAddress.Data().Email
}
