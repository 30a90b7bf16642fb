package service

import (
	"errors"

	"villfresh_store/internal/domain/cart/model"
	"villfresh_store/internal/domain/cart/repository"

	"gorm.io/datatypes"
)

var ErrItemNotFound = errors.New("product not found in cart")

// AddInput is the product snapshot stored alongside the cart line.
type AddInput struct {
	ProductID string
	Name      string
	Image     string
	Price     float64
	Weight    string
}

type CartService interface {
	GetCart(userID string) (*model.Cart, error)
	AddItem(userID string, input AddInput) (*model.Cart, error)
	UpdateQuantity(userID, productID string, quantity int) (*model.Cart, bool, error)
	RemoveItem(userID, productID string) (*model.Cart, error)
	ClearCart(userID string) (*model.Cart, error)
}

type cartService struct {
	repo repository.CartRepository
}

func NewCartService(repo repository.CartRepository) CartService {
	return &cartService{repo: repo}
}

func (s *cartService) GetCart(userID string) (*model.Cart, error) {
	return s.repo.GetByUser(userID)
}

// AddItem increments quantity when the product is already in the cart,
// otherwise appends a new line with quantity 1.
func (s *cartService) AddItem(userID string, input AddInput) (*model.Cart, error) {
	cart, err := s.repo.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	items := cart.Items.Data()
	found := false
	for i := range items {
		if items[i].ProductID == input.ProductID {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		items = append(items, model.CartItem{
			ProductID: input.ProductID,
			Name:      input.Name,
			Image:     input.Image,
			Price:     input.Price,
			Weight:    input.Weight,
			Quantity:  1,
		})
	}

	cart.Items = datatypes.NewJSONType(items)
	if err := s.repo.Save(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity sets the line quantity; zero or less removes the line.
// The second return value reports whether the line was removed.
func (s *cartService) UpdateQuantity(userID, productID string, quantity int) (*model.Cart, bool, error) {
	cart, err := s.repo.GetByUser(userID)
	if err != nil {
		return nil, false, err
	}

	items := cart.Items.Data()
	idx := -1
	for i := range items {
		if items[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, false, ErrItemNotFound
	}

	removed := false
	if quantity <= 0 {
		items = append(items[:idx], items[idx+1:]...)
		removed = true
	} else {
		items[idx].Quantity = quantity
	}

	cart.Items = datatypes.NewJSONType(items)
	if err := s.repo.Save(cart); err != nil {
		return nil, false, err
	}
	return cart, removed, nil
}

func (s *cartService) RemoveItem(userID, productID string) (*model.Cart, error) {
	cart, err := s.repo.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	items := cart.Items.Data()
	kept := items[:0]
	for _, item := range items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}

	cart.Items = datatypes.NewJSONType(kept)
	if err := s.repo.Save(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartService) ClearCart(userID string) (*model.Cart, error) {
	cart, err := s.repo.GetByUser(userID)
	if err != nil {
		return nil, err
	}

	cart.Items = datatypes.NewJSONType([]model.CartItem{})
	if err := s.repo.Save(cart); err != nil {
		return nil, err
	}
	return cart, nil
}
