package service

import (
	"villfresh_store/internal/domain/product/model"
	"villfresh_store/internal/domain/product/repository"
)

// ProductService exposes catalog reads and admin writes.
type ProductService interface {
	GetProducts(filter repository.ListFilter) ([]model.Product, error)
	GetProduct(id string) (*model.Product, error)
	CreateProduct(product *model.Product) error
	UpdateProduct(product *model.Product) error
	DeleteProduct(id string) error
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) GetProducts(filter repository.ListFilter) ([]model.Product, error) {
	return s.repo.GetList(filter)
}

func (s *productService) GetProduct(id string) (*model.Product, error) {
	return s.repo.GetByID(id)
}

func (s *productService) CreateProduct(product *model.Product) error {
	return s.repo.Create(product)
}

func (s *productService) UpdateProduct(product *model.Product) error {
	return s.repo.Update(product)
}

func (s *productService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}
