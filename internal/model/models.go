package model

import "time"

// Roles a user can hold. Admin gates catalog mutation and order status
// changes; everything else is customer-level.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Order lifecycle states.
const (
	StatusOrdered   = "ordered"
	StatusReceived  = "received"
	StatusCancelled = "cancelled"
)

// Categories is the closed set a sweet may belong to.
var Categories = []string{"Chocolate", "Gummy", "Hard Candy", "Cookies", "Cakes", "Other"}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

func ValidStatus(s string) bool {
	return s == StatusOrdered || s == StatusReceived || s == StatusCancelled
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"` // stored lowercase
	Password  string    `gorm:"not null" json:"-"`                 // bcrypt hash, never serialized
	Role      string    `gorm:"not null;default:customer" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

type Sweet struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:500;not null" json:"description"`
	Price       float64   `gorm:"not null" json:"price"`
	Category    string    `gorm:"index;not null" json:"category"`
	Quantity    int       `gorm:"not null;default:0" json:"quantity"`
	ImageURL    string    `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CartItem is one row of a user's cart. Price is captured when the item is
// added and is not refreshed if the sweet's price changes later.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index:idx_cart_user_sweet,unique" json:"-"`
	SweetID   uint      `gorm:"index:idx_cart_user_sweet,unique" json:"sweetId"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Sweet     Sweet     `json:"sweet"`
}

type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	UserID      uint        `gorm:"index" json:"userId"`
	OrderNumber string      `gorm:"uniqueIndex;not null" json:"orderNumber"`
	Items       []OrderItem `json:"items"`
	TotalAmount float64     `gorm:"not null" json:"totalAmount"`
	TotalItems  int         `gorm:"not null" json:"totalItems"`
	Status      string      `gorm:"not null;default:ordered" json:"status"`
	Notes       string      `json:"notes,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// OrderItem snapshots the sweet's name and price at order time, so later
// catalog edits or deletions never change historical orders.
type OrderItem struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	OrderID  uint    `gorm:"index" json:"-"`
	SweetID  uint    `json:"sweetId"`
	Name     string  `gorm:"not null" json:"name"`
	Price    float64 `gorm:"not null" json:"price"`
	Quantity int     `gorm:"not null" json:"quantity"`
}
