package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SaiPrasanth27/sweet-shop-management-system/internal/model"
)

// newTestDB opens an isolated in-memory database per test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Sweet{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	))
	return db
}

func newTestAuth(db *gorm.DB) AuthService {
	return NewAuthService(db, []byte("test-secret"), time.Hour, bcrypt.MinCost)
}

type noopEmail struct{}

func (noopEmail) Send(to, subject, body string) error { return nil }

func createUser(t *testing.T, db *gorm.DB, email, role string) model.User {
	t.Helper()
	u, _, err := newTestAuth(db).Register("tester", email, "secret1", role)
	require.NoError(t, err)
	return u
}

func createSweet(t *testing.T, db *gorm.DB, name string, price float64, category string, qty int) model.Sweet {
	t.Helper()
	sw := model.Sweet{Name: name, Description: name + " description", Price: price, Category: category, Quantity: qty}
	require.NoError(t, db.Create(&sw).Error)
	return sw
}
