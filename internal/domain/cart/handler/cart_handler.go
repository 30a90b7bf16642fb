package handler

import (
	"errors"
	"net/http"

	"villfresh_store/internal/domain/cart/model"
	"villfresh_store/internal/domain/cart/service"
	"villfresh_store/pkg/response"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	service service.CartService
}

func NewCartHandler(service service.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// cartView is the cart shape sent to the frontend: items plus a
// server-computed total.
type cartView struct {
	Items []model.CartItem `json:"items"`
	Total float64          `json:"total"`
}

func newCartView(cart *model.Cart) cartView {
	items := cart.Items.Data()
	if items == nil {
		items = []model.CartItem{}
	}
	return cartView{Items: items, Total: cart.Total()}
}

func currentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "User not authenticated")
		return "", false
	}
	uid, ok := userID.(string)
	if !ok {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Invalid user ID type")
		return "", false
	}
	return uid, true
}

func (h *CartHandler) GetCart(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	cart, err := h.service.GetCart(uid)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, gin.H{"cart": newCartView(cart)})
}

type AddToCartInput struct {
	ProductID string  `json:"productId" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	Image     string  `json:"image"`
	Price     float64 `json:"price" binding:"required,min=0"`
	Weight    string  `json:"weight"`
}

func (h *CartHandler) AddToCart(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	var input AddToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	cart, err := h.service.AddItem(uid, service.AddInput{
		ProductID: input.ProductID,
		Name:      input.Name,
		Image:     input.Image,
		Price:     input.Price,
		Weight:    input.Weight,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, gin.H{
		"message": "Product added to cart",
		"cart":    newCartView(cart),
	})
}

type UpdateCartInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  *int   `json:"quantity" binding:"required"`
}

func (h *CartHandler) UpdateCart(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	var input UpdateCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	cart, removed, err := h.service.UpdateQuantity(uid, input.ProductID, *input.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrCartItemNotFound, "Product not found in cart")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	msg := "Cart updated"
	if removed {
		msg = "Product removed from cart"
	}
	response.Success(c, gin.H{
		"message": msg,
		"cart":    newCartView(cart),
	})
}

type RemoveFromCartInput struct {
	ProductID string `json:"productId" binding:"required"`
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	var input RemoveFromCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	cart, err := h.service.RemoveItem(uid, input.ProductID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, gin.H{
		"message": "Product removed from cart",
		"cart":    newCartView(cart),
	})
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	cart, err := h.service.ClearCart(uid)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, gin.H{
		"message": "Cart cleared",
		"cart":    newCartView(cart),
	})
}
