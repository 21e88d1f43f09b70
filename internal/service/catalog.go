package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/SaiPrasanth27/sweet-shop-management-system/internal/model"
)

type ListFilter struct {
	Category string
	Search   string
	Page     int // 0 means unpaged
	Limit    int
}

type ListResult struct {
	Sweets      []model.Sweet
	Total       int64
	TotalPages  int
	CurrentPage int
}

// SweetInput carries create/update fields. Pointers distinguish "absent"
// from zero values so updates can be partial.
type SweetInput struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Quantity    *int
	ImageURL    *string
}

type CatalogService interface {
	List(f ListFilter) (ListResult, error)
	Get(id uint) (model.Sweet, error)
	Create(in SweetInput) (model.Sweet, error)
	Update(id uint, in SweetInput) (model.Sweet, error)
	Delete(id uint) error
	Restock(id uint, qty int) (model.Sweet, error)
}

type catalogService struct{ db *gorm.DB }

func NewCatalogService(db *gorm.DB) CatalogService { return &catalogService{db: db} }

const defaultPageSize = 20

func (s *catalogService) List(f ListFilter) (ListResult, error) {
	q := s.db.Model(&model.Sweet{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		// Portable case-insensitive substring match over name and description.
		pat := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pat, pat)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return ListResult{}, err
	}

	res := ListResult{Total: total, TotalPages: 1, CurrentPage: 1}
	if f.Page > 0 || f.Limit > 0 {
		page, limit := f.Page, f.Limit
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = defaultPageSize
		}
		q = q.Offset((page - 1) * limit).Limit(limit)
		res.CurrentPage = page
		res.TotalPages = int((total + int64(limit) - 1) / int64(limit))
		if res.TotalPages < 1 {
			res.TotalPages = 1
		}
	}

	if err := q.Order("id asc").Find(&res.Sweets).Error; err != nil {
		return ListResult{}, err
	}
	if res.Sweets == nil {
		res.Sweets = []model.Sweet{}
	}
	return res, nil
}

func (s *catalogService) Get(id uint) (model.Sweet, error) {
	var sw model.Sweet
	if err := s.db.First(&sw, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Sweet{}, ErrNotFound
		}
		return model.Sweet{}, err
	}
	return sw, nil
}

// validateSweet checks whichever fields are present. On create, required
// fields must be present as well.
func validateSweet(in SweetInput, create bool) error {
	var fields []FieldError
	if in.Name != nil {
		if l := len(strings.TrimSpace(*in.Name)); l == 0 || l > 100 {
			fields = append(fields, FieldError{"name", "must be 1-100 characters"})
		}
	} else if create {
		fields = append(fields, FieldError{"name", "is required"})
	}
	if in.Description != nil {
		if l := len(strings.TrimSpace(*in.Description)); l == 0 || l > 500 {
			fields = append(fields, FieldError{"description", "must be 1-500 characters"})
		}
	} else if create {
		fields = append(fields, FieldError{"description", "is required"})
	}
	if in.Price != nil {
		if *in.Price < 0 {
			fields = append(fields, FieldError{"price", "must be a positive number"})
		}
	} else if create {
		fields = append(fields, FieldError{"price", "is required"})
	}
	if in.Category != nil {
		if !model.ValidCategory(*in.Category) {
			fields = append(fields, FieldError{"category", "invalid category"})
		}
	} else if create {
		fields = append(fields, FieldError{"category", "is required"})
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		fields = append(fields, FieldError{"quantity", "must be a non-negative integer"})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (s *catalogService) Create(in SweetInput) (model.Sweet, error) {
	if err := validateSweet(in, true); err != nil {
		return model.Sweet{}, err
	}
	sw := model.Sweet{
		Name:        strings.TrimSpace(*in.Name),
		Description: strings.TrimSpace(*in.Description),
		Price:       *in.Price,
		Category:    *in.Category,
	}
	if in.Quantity != nil {
		sw.Quantity = *in.Quantity
	}
	if in.ImageURL != nil {
		sw.ImageURL = *in.ImageURL
	}
	if err := s.db.Create(&sw).Error; err != nil {
		return model.Sweet{}, err
	}
	return sw, nil
}

func (s *catalogService) Update(id uint, in SweetInput) (model.Sweet, error) {
	if err := validateSweet(in, false); err != nil {
		return model.Sweet{}, err
	}
	sw, err := s.Get(id)
	if err != nil {
		return model.Sweet{}, err
	}
	if in.Name != nil {
		sw.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		sw.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		sw.Price = *in.Price
	}
	if in.Category != nil {
		sw.Category = *in.Category
	}
	if in.Quantity != nil {
		sw.Quantity = *in.Quantity
	}
	if in.ImageURL != nil {
		sw.ImageURL = *in.ImageURL
	}
	if err := s.db.Save(&sw).Error; err != nil {
		return model.Sweet{}, err
	}
	return sw, nil
}

func (s *catalogService) Delete(id uint) error {
	res := s.db.Delete(&model.Sweet{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *catalogService) Restock(id uint, qty int) (model.Sweet, error) {
	if qty <= 0 {
		return model.Sweet{}, &ValidationError{Fields: []FieldError{{"quantity", "must be greater than 0"}}}
	}
	sw, err := s.Get(id)
	if err != nil {
		return model.Sweet{}, err
	}
	if err := s.db.Model(&sw).Update("quantity", gorm.Expr("quantity + ?", qty)).Error; err != nil {
		return model.Sweet{}, err
	}
	return s.Get(id)
}
