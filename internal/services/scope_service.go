package services

import (
	"errors"

	"github.com/franciscosanchezn/gin-identity-provider/internal/models"
	"gorm.io/gorm"
)

var ErrScopeAlreadyExists = errors.New("scope already exists")

type ScopeService interface {
	CreateScope(code, description string) (*models.Scope, error)
	ListScopes() ([]models.Scope, error)
}

type scopeService struct {
	db *gorm.DB
}

func NewScopeService(db *gorm.DB) ScopeService {
	return &scopeService{db: db}
}

func (s *scopeService) CreateScope(code, description string) (*models.Scope, error) {
	var existing models.Scope
	if err := s.db.Where("code = ?", code).First(&existing).Error; err == nil {
		return nil, ErrScopeAlreadyExists
	}
	scope := &models.Scope{Code: code, Description: description}
	if err := s.db.Create(scope).Error; err != nil {
		return nil, err
	}
	return scope, nil
}

func (s *scopeService) ListScopes() ([]models.Scope, error) {
	var scopes []models.Scope
	if err := s.db.Find(&scopes).Error; err != nil {
		return nil, err
	}
	return scopes, nil
}
