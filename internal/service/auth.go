package service

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SaiPrasanth27/sweet-shop-management-system/internal/model"
)

var emailRe = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,})+$`)

type AuthService interface {
	Register(username, email, password, role string) (model.User, string, error)
	Login(email, password string) (model.User, string, error)
	ParseToken(token string) (uint, string, error) // returns userID, role
	GetUser(id uint) (model.User, error)
}

type authService struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
	cost   int // bcrypt cost, explicit so tests can use bcrypt.MinCost
}

func NewAuthService(db *gorm.DB, secret []byte, ttl time.Duration, bcryptCost int) AuthService {
	return &authService{db: db, secret: secret, ttl: ttl, cost: bcryptCost}
}

func validateRegistration(username, email, password, role string) error {
	var fields []FieldError
	if l := len(strings.TrimSpace(username)); l < 3 || l > 30 {
		fields = append(fields, FieldError{"username", "must be 3-30 characters"})
	}
	if !emailRe.MatchString(email) {
		fields = append(fields, FieldError{"email", "must be a valid email address"})
	}
	if len(password) < 6 {
		fields = append(fields, FieldError{"password", "must be at least 6 characters"})
	}
	if role != "" && role != model.RoleCustomer && role != model.RoleAdmin {
		fields = append(fields, FieldError{"role", "must be customer or admin"})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (a *authService) Register(username, email, password, role string) (model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateRegistration(username, email, password, role); err != nil {
		return model.User{}, "", err
	}
	if role == "" {
		role = model.RoleCustomer
	}

	var existing model.User
	err := a.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return model.User{}, "", ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.User{}, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return model.User{}, "", err
	}
	u := model.User{
		Username: strings.TrimSpace(username),
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	if err := a.db.Create(&u).Error; err != nil {
		return model.User{}, "", err
	}

	tok, err := a.issueToken(u)
	return u, tok, err
}

func (a *authService) Login(email, password string) (model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var u model.User
	if err := a.db.Where("email = ?", email).First(&u).Error; err != nil {
		// Same error whether the email is unknown or the password wrong.
		return model.User{}, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return model.User{}, "", ErrInvalidCredentials
	}

	tok, err := a.issueToken(u)
	return u, tok, err
}

func (a *authService) issueToken(u model.User) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": u.ID,
		"role":   u.Role,
		"exp":    time.Now().Add(a.ttl).Unix(),
	})
	return t.SignedString(a.secret)
}

func (a *authService) ParseToken(token string) (uint, string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil {
		return 0, "", ErrInvalidToken
	}
	idFloat, ok := claims["userId"].(float64)
	if !ok || idFloat <= 0 {
		return 0, "", ErrInvalidToken
	}
	role, ok := claims["role"].(string)
	if !ok {
		return 0, "", ErrInvalidToken
	}
	return uint(idFloat), role, nil
}

func (a *authService) GetUser(id uint) (model.User, error) {
	var u model.User
	if err := a.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, err
	}
	return u, nil
}
