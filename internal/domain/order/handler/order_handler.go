package handler

import (
	"errors"
	"net/http"

	"villfresh_store/internal/domain/order/model"
	"villfresh_store/internal/domain/order/service"
	"villfresh_store/pkg/response"
	"villfresh_store/pkg/utils"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(service service.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

func currentUser(c *gin.Context) (string, string, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "User not authenticated")
		return "", "", false
	}
	uid, ok := userID.(string)
	if !ok {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Invalid user ID type")
		return "", "", false
	}
	role, _ := c.Get("role")
	r, _ := role.(string)
	return uid, r, true
}

type OrderItemInput struct {
	ProductID string  `json:"productId" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Image     string  `json:"image"`
	Price     float64 `json:"price" binding:"required,min=0"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
}

type ShippingAddressInput struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email"`
	Phone    string `json:"phone" binding:"required"`
	Address  string `json:"address" binding:"required"`
	City     string `json:"city" binding:"required"`
	State    string `json:"state" binding:"required"`
	Pincode  string `json:"pincode" binding:"required"`
}

type CreateOrderInput struct {
	Items           []OrderItemInput     `json:"items" binding:"required,min=1,dive"`
	ShippingAddress ShippingAddressInput `json:"shippingAddress" binding:"required"`
	PaymentMethod   string               `json:"paymentMethod" binding:"required,oneof=upi cod"`
	UPIApp          string               `json:"upiApp"`
	UPIID           string               `json:"upiId"`
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	uid, _, ok := currentUser(c)
	if !ok {
		return
	}

	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	items := make([]model.OrderItem, 0, len(input.Items))
	for _, it := range input.Items {
		items = append(items, model.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	result, err := h.service.CreateOrder(c.Request.Context(), service.CreateInput{
		UserID: uid,
		Items:  items,
		ShippingAddress: model.ShippingAddress{
			FullName: input.ShippingAddress.FullName,
			Email:    input.ShippingAddress.Email,
			Phone:    input.ShippingAddress.Phone,
			Address:  input.ShippingAddress.Address,
			City:     input.ShippingAddress.City,
			State:    input.ShippingAddress.State,
			Pincode:  input.ShippingAddress.Pincode,
		},
		PaymentMethod: input.PaymentMethod,
		UPIApp:        input.UPIApp,
		UPIID:         input.UPIID,
	})
	if err != nil {
		var oos *service.OutOfStockError
		if errors.As(err, &oos) {
			c.JSON(http.StatusBadRequest, response.Response{
				Code:    response.ErrOutOfStock,
				Message: "Some products are out of stock",
				Data:    gin.H{"outOfStockItems": oos.Items},
			})
			return
		}
		var initErr *service.PaymentInitError
		if errors.As(err, &initErr) {
			response.Error(c, http.StatusInternalServerError, response.ErrPaymentInit, "Failed to initiate payment: "+initErr.Err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	if !result.RequiresPayment {
		response.Created(c, gin.H{
			"message":         "Order created successfully",
			"order":           result.Order,
			"requiresPayment": false,
		})
		return
	}

	response.Created(c, gin.H{
		"message":         "Order created. Please complete payment.",
		"order":           result.Order,
		"requiresPayment": true,
		"paymentUrl":      result.PaymentURL,
		"qrCode":          result.QRCode,
	})
}

func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	uid, _, ok := currentUser(c)
	if !ok {
		return
	}

	orders, err := h.service.GetUserOrders(uid)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, gin.H{"orders": orders, "count": len(orders)})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	uid, role, ok := currentUser(c)
	if !ok {
		return
	}

	order, err := h.service.GetOrder(c.Param("id"), uid, role)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	response.Success(c, gin.H{"order": order})
}

func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	orders, total, err := h.service.GetAllOrders(p.Page, p.Limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, gin.H{"orders": orders, "count": total})
}

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var input UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	order, err := h.service.UpdateOrderStatus(c.Param("id"), input.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "Order not found")
		case errors.Is(err, service.ErrInvalidStatus):
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid order status")
		case errors.Is(err, service.ErrStatusFinalized):
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Order status can no longer change")
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}

	response.Success(c, gin.H{"message": "Order status updated", "order": order})
}

// CheckPaymentStatus backs frontend polling after a UPI redirect.
func (h *OrderHandler) CheckPaymentStatus(c *gin.Context) {
	uid, role, ok := currentUser(c)
	if !ok {
		return
	}

	result, err := h.service.CheckPaymentStatus(c.Request.Context(), c.Param("id"), uid, role)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	data := gin.H{
		"paymentStatus": result.PaymentStatus,
		"orderStatus":   result.OrderStatus,
		"order":         result.Order,
	}
	if result.GatewayStatus != "" {
		data["gatewayStatus"] = result.GatewayStatus
	}
	if result.GatewayError {
		data["error"] = "Could not verify payment status with gateway"
	}

	response.Success(c, data)
}

func writeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, "Order not found")
	case errors.Is(err, service.ErrAccessDenied):
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Access denied")
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}
