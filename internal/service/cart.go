package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/SaiPrasanth27/sweet-shop-management-system/internal/model"
)

// CartSummary is what every cart endpoint returns: the items with sweets
// resolved plus the computed totals.
type CartSummary struct {
	Items       []model.CartItem `json:"items"`
	TotalAmount float64          `json:"totalAmount"`
	ItemCount   int              `json:"itemCount"`
}

type CartService interface {
	Get(userID uint) (CartSummary, error)
	Add(userID, sweetID uint, qty int) (CartSummary, error)
	Update(userID, sweetID uint, qty int) (CartSummary, error)
	Remove(userID, sweetID uint) (CartSummary, error)
	Clear(userID uint) (CartSummary, error)
}

type cartService struct{ db *gorm.DB }

func NewCartService(db *gorm.DB) CartService { return &cartService{db: db} }

func (s *cartService) Get(userID uint) (CartSummary, error) {
	var items []model.CartItem
	err := s.db.Preload("Sweet").Where("user_id = ?", userID).Order("id asc").Find(&items).Error
	if err != nil {
		return CartSummary{}, err
	}
	if items == nil {
		items = []model.CartItem{}
	}
	sum := CartSummary{Items: items}
	for _, it := range items {
		sum.TotalAmount += it.Price * float64(it.Quantity)
		sum.ItemCount += it.Quantity
	}
	return sum, nil
}

func (s *cartService) Add(userID, sweetID uint, qty int) (CartSummary, error) {
	if qty <= 0 {
		qty = 1
	}

	var sw model.Sweet
	if err := s.db.First(&sw, sweetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartSummary{}, ErrNotFound
		}
		return CartSummary{}, err
	}

	var it model.CartItem
	err := s.db.Where("user_id = ? AND sweet_id = ?", userID, sweetID).First(&it).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if sw.Quantity < qty {
			return CartSummary{}, &StockError{Name: sw.Name, Available: sw.Quantity}
		}
		// Price captured now; later catalog price changes do not touch it.
		it = model.CartItem{UserID: userID, SweetID: sweetID, Quantity: qty, Price: sw.Price}
		if err := s.db.Create(&it).Error; err != nil {
			return CartSummary{}, err
		}
	case err != nil:
		return CartSummary{}, err
	default:
		merged := it.Quantity + qty
		if sw.Quantity < merged {
			return CartSummary{}, &StockError{Name: sw.Name, Available: sw.Quantity}
		}
		if err := s.db.Model(&it).Update("quantity", merged).Error; err != nil {
			return CartSummary{}, err
		}
	}
	return s.Get(userID)
}

func (s *cartService) Update(userID, sweetID uint, qty int) (CartSummary, error) {
	if qty <= 0 {
		return CartSummary{}, &ValidationError{Fields: []FieldError{{"quantity", "must be greater than 0"}}}
	}

	var sw model.Sweet
	if err := s.db.First(&sw, sweetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartSummary{}, ErrNotFound
		}
		return CartSummary{}, err
	}
	if sw.Quantity < qty {
		return CartSummary{}, &StockError{Name: sw.Name, Available: sw.Quantity}
	}

	var it model.CartItem
	if err := s.db.Where("user_id = ? AND sweet_id = ?", userID, sweetID).First(&it).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartSummary{}, ErrItemNotInCart
		}
		return CartSummary{}, err
	}
	if err := s.db.Model(&it).Update("quantity", qty).Error; err != nil {
		return CartSummary{}, err
	}
	return s.Get(userID)
}

// Remove is idempotent: removing an absent item is not an error.
func (s *cartService) Remove(userID, sweetID uint) (CartSummary, error) {
	err := s.db.Where("user_id = ? AND sweet_id = ?", userID, sweetID).Delete(&model.CartItem{}).Error
	if err != nil {
		return CartSummary{}, err
	}
	return s.Get(userID)
}

func (s *cartService) Clear(userID uint) (CartSummary, error) {
	if err := s.db.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error; err != nil {
		return CartSummary{}, err
	}
	return CartSummary{Items: []model.CartItem{}}, nil
}
