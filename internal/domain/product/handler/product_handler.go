package handler

import (
	"errors"
	"net/http"

	"villfresh_store/internal/domain/product/model"
	"villfresh_store/internal/domain/product/repository"
	"villfresh_store/internal/domain/product/service"
	"villfresh_store/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(service service.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// GetProducts lists the catalog with optional search/category/price filters.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	filter := repository.ListFilter{
		Search:     c.Query("search"),
		Category:   c.Query("category"),
		PriceRange: c.Query("priceRange"),
		SortBy:     c.Query("sortBy"),
	}

	products, err := h.service.GetProducts(filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")

	product, err := h.service.GetProduct(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrProductNotFound, "Product not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, product)
}

type ProductInput struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"required,min=0.01"`
	Image       string   `json:"image"`
	Category    string   `json:"category" binding:"required,oneof=rice nuts seeds"`
	Weight      string   `json:"weight"`
	Benefits    []string `json:"benefits"`
	InStock     *bool    `json:"inStock"`
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	product := &model.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Image:       input.Image,
		Category:    input.Category,
		Weight:      input.Weight,
		Benefits:    input.Benefits,
		InStock:     true,
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}

	if err := h.service.CreateProduct(product); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	product, err := h.service.GetProduct(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrProductNotFound, "Product not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	var input ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.Image = input.Image
	product.Category = input.Category
	product.Weight = input.Weight
	product.Benefits = input.Benefits
	if input.InStock != nil {
		product.InStock = *input.InStock
	}

	if err := h.service.UpdateProduct(product); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	if _, err := h.service.GetProduct(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, response.ErrProductNotFound, "Product not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	if err := h.service.DeleteProduct(id); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	response.Success(c, "Product deleted successfully")
}
