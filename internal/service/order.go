package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"gorm.io/gorm"

	"github.com/SaiPrasanth27/sweet-shop-management-system/internal/model"
)

// CheckoutLine is one requested order line.
type CheckoutLine struct {
	SweetID  uint
	Quantity int
}

type OrderService interface {
	// Checkout creates an order from explicit lines, or from the user's cart
	// when lines is empty (the cart is cleared on success).
	Checkout(userID uint, lines []CheckoutLine, notes string) (model.Order, error)
	PurchaseDirect(userID, sweetID uint, qty int, notes string) (model.Order, model.Sweet, error)
	ListForUser(userID uint) ([]model.Order, float64, error)
	GetForUser(userID, orderID uint) (model.Order, error)
	GetByNumberForUser(userID uint, number string) (model.Order, error)
	Cancel(userID, orderID uint) (model.Order, error)
	SetStatus(orderID uint, status string) (model.Order, error)
}

type orderService struct {
	db    *gorm.DB
	email EmailService
}

func NewOrderService(db *gorm.DB, email EmailService) OrderService {
	return &orderService{db: db, email: email}
}

// nextOrderNumber formats a human-readable sequential number. Called inside
// the checkout transaction; the unique index on order_number backstops it.
func nextOrderNumber(tx *gorm.DB) (string, error) {
	var n int64
	if err := tx.Model(&model.Order{}).Count(&n).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%06d", n+1), nil
}

func (s *orderService) Checkout(userID uint, lines []CheckoutLine, notes string) (model.Order, error) {
	fromCart := len(lines) == 0
	var order model.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if fromCart {
			var items []model.CartItem
			if err := tx.Where("user_id = ?", userID).Order("id asc").Find(&items).Error; err != nil {
				return err
			}
			if len(items) == 0 {
				return ErrCartEmpty
			}
			for _, it := range items {
				lines = append(lines, CheckoutLine{SweetID: it.SweetID, Quantity: it.Quantity})
			}
		}

		var total float64
		var count int
		oitems := make([]model.OrderItem, 0, len(lines))
		for _, ln := range lines {
			if ln.Quantity < 1 {
				return &ValidationError{Fields: []FieldError{{"quantity", "must be at least 1"}}}
			}
			var sw model.Sweet
			if err := tx.First(&sw, ln.SweetID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ValidationError{Fields: []FieldError{{"sweet", "not found: " + strconv.FormatUint(uint64(ln.SweetID), 10)}}}
				}
				return err
			}

			// Conditional decrement: succeeds only while stock suffices, so
			// concurrent checkouts cannot drive quantity negative. Any line
			// failing rolls the whole transaction back.
			res := tx.Model(&model.Sweet{}).
				Where("id = ? AND quantity >= ?", sw.ID, ln.Quantity).
				Update("quantity", gorm.Expr("quantity - ?", ln.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return &StockError{Name: sw.Name, Available: sw.Quantity}
			}

			total += sw.Price * float64(ln.Quantity)
			count += ln.Quantity
			oitems = append(oitems, model.OrderItem{
				SweetID:  sw.ID,
				Name:     sw.Name,
				Price:    sw.Price,
				Quantity: ln.Quantity,
			})
		}

		num, err := nextOrderNumber(tx)
		if err != nil {
			return err
		}
		order = model.Order{
			UserID:      userID,
			OrderNumber: num,
			Items:       oitems,
			TotalAmount: total,
			TotalItems:  count,
			Status:      model.StatusOrdered,
			Notes:       notes,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if fromCart {
			if err := tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	s.sendConfirmation(userID, order)
	return order, nil
}

// sendConfirmation mails the order summary, best-effort.
func (s *orderService) sendConfirmation(userID uint, order model.Order) {
	var u model.User
	if err := s.db.First(&u, userID).Error; err != nil {
		return
	}
	body := fmt.Sprintf("Thanks! Your order %s for %.2f has been received.", order.OrderNumber, order.TotalAmount)
	if err := s.email.Send(u.Email, "Order confirmation", body); err != nil {
		slog.Warn("order confirmation mail failed", "order", order.OrderNumber, "error", err)
	}
}

func (s *orderService) PurchaseDirect(userID, sweetID uint, qty int, notes string) (model.Order, model.Sweet, error) {
	order, err := s.Checkout(userID, []CheckoutLine{{SweetID: sweetID, Quantity: qty}}, notes)
	if err != nil {
		return model.Order{}, model.Sweet{}, err
	}
	var sw model.Sweet
	if err := s.db.First(&sw, sweetID).Error; err != nil {
		return model.Order{}, model.Sweet{}, err
	}
	return order, sw, nil
}

func (s *orderService) ListForUser(userID uint) ([]model.Order, float64, error) {
	var orders []model.Order
	err := s.db.Preload("Items").Where("user_id = ?", userID).Order("created_at desc, id desc").Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	if orders == nil {
		orders = []model.Order{}
	}
	var spent float64
	for _, o := range orders {
		if o.Status != model.StatusCancelled {
			spent += o.TotalAmount
		}
	}
	return orders, spent, nil
}

func (s *orderService) GetForUser(userID, orderID uint) (model.Order, error) {
	var o model.Order
	err := s.db.Preload("Items").Where("id = ? AND user_id = ?", orderID, userID).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Order{}, ErrNotFound
		}
		return model.Order{}, err
	}
	return o, nil
}

func (s *orderService) GetByNumberForUser(userID uint, number string) (model.Order, error) {
	var o model.Order
	err := s.db.Preload("Items").Where("order_number = ? AND user_id = ?", number, userID).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Order{}, ErrNotFound
		}
		return model.Order{}, err
	}
	return o, nil
}

func (s *orderService) Cancel(userID, orderID uint) (model.Order, error) {
	var order model.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		switch order.Status {
		case model.StatusCancelled:
			return ErrAlreadyCancelled
		case model.StatusReceived:
			return ErrOrderReceived
		}
		return cancelTx(tx, &order)
	})
	if err != nil {
		return model.Order{}, err
	}
	return order, nil
}

// cancelTx marks the order cancelled, zeroes its total and restores each
// line's quantity to the sweet's stock. Line items stay untouched for the
// historical record. Sweets deleted since the order are skipped.
func cancelTx(tx *gorm.DB, order *model.Order) error {
	order.Status = model.StatusCancelled
	order.TotalAmount = 0
	err := tx.Model(&model.Order{}).Where("id = ?", order.ID).
		Updates(map[string]any{"status": model.StatusCancelled, "total_amount": 0}).Error
	if err != nil {
		return err
	}
	for _, it := range order.Items {
		err := tx.Model(&model.Sweet{}).Where("id = ?", it.SweetID).
			Update("quantity", gorm.Expr("quantity + ?", it.Quantity)).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// SetStatus is the admin path: any enum value is accepted unconditionally.
// Moving an order into cancelled restores stock the same way the owner
// cancel does, so the two routes agree on inventory.
func (s *orderService) SetStatus(orderID uint, status string) (model.Order, error) {
	if !model.ValidStatus(status) {
		return model.Order{}, &ValidationError{Fields: []FieldError{{"status", "invalid status"}}}
	}
	var order model.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if status == model.StatusCancelled && order.Status != model.StatusCancelled {
			return cancelTx(tx, &order)
		}
		order.Status = status
		return tx.Model(&model.Order{}).Where("id = ?", order.ID).Update("status", status).Error
	})
	if err != nil {
		return model.Order{}, err
	}
	return order, nil
}
