package service

import (
	"context"
	"fmt"
	"time"

	"villfresh_store/internal/domain/product/model"
	"villfresh_store/internal/domain/product/repository"
	"villfresh_store/pkg/cache"
	"villfresh_store/pkg/logger"

	"go.uber.org/zap"
)

// CachedProductService is a read-through cache in front of the catalog.
// The storefront's home page hits the unfiltered listing on every visit,
// which is the one query worth caching.
type CachedProductService struct {
	repo  repository.ProductRepository
	cache cache.CacheService
}

func NewCachedProductService(repo repository.ProductRepository, c cache.CacheService) ProductService {
	return &CachedProductService{
		repo:  repo,
		cache: c,
	}
}

const (
	productCacheKeyPrefix = "product:"
	productListCacheKey   = "product_list:all"
	productCacheTTL       = time.Hour * 2
	productListCacheTTL   = time.Minute * 30
)

func (s *CachedProductService) getProductCacheKey(id string) string {
	return fmt.Sprintf("%s%s", productCacheKeyPrefix, id)
}

// invalidateProductCache clears the single-product entry and the listing
// after any admin write.
func (s *CachedProductService) invalidateProductCache(ctx context.Context, productID string) {
	if err := s.cache.Delete(ctx, s.getProductCacheKey(productID)); err != nil {
		logger.Log.Warn("failed to invalidate product cache", zap.String("product_id", productID), zap.Error(err))
	}
	if err := s.cache.Delete(ctx, productListCacheKey); err != nil {
		logger.Log.Warn("failed to invalidate product list cache", zap.Error(err))
	}
}

func (s *CachedProductService) GetProducts(filter repository.ListFilter) ([]model.Product, error) {
	// Filtered queries go straight to the database; bounded key space.
	if !filter.IsEmpty() {
		return s.repo.GetList(filter)
	}

	ctx := context.Background()
	var products []model.Product
	if err := s.cache.Get(ctx, productListCacheKey, &products); err == nil {
		return products, nil
	}

	products, err := s.repo.GetList(filter)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, productListCacheKey, products, productListCacheTTL); err != nil {
		logger.Log.Warn("failed to cache product list", zap.Error(err))
	}

	return products, nil
}

func (s *CachedProductService) GetProduct(id string) (*model.Product, error) {
	ctx := context.Background()

	var product model.Product
	if err := s.cache.Get(ctx, s.getProductCacheKey(id), &product); err == nil {
		return &product, nil
	}

	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, s.getProductCacheKey(id), p, productCacheTTL); err != nil {
		logger.Log.Warn("failed to cache product", zap.String("product_id", id), zap.Error(err))
	}

	return p, nil
}

func (s *CachedProductService) CreateProduct(product *model.Product) error {
	if err := s.repo.Create(product); err != nil {
		return err
	}
	s.invalidateProductCache(context.Background(), product.ID)
	return nil
}

func (s *CachedProductService) UpdateProduct(product *model.Product) error {
	if err := s.repo.Update(product); err != nil {
		return err
	}
	s.invalidateProductCache(context.Background(), product.ID)
	return nil
}

func (s *CachedProductService) DeleteProduct(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidateProductCache(context.Background(), id)
	return nil
}
