package services

import (
	"errors"
	"strings"

	"github.com/franciscosanchezn/gin-identity-provider/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrRedirectURINotFound = errors.New("redirect uri not found")
)

// ApplicationCredentials is returned exactly once, at creation time. The
// secret is never recoverable afterwards; only its bcrypt hash is stored.
type ApplicationCredentials struct {
	ClientID     string
	ClientSecret string
}

type ApplicationService interface {
	CreateApplication(name, description, iconURI string) (*models.Application, *ApplicationCredentials, error)
	GetApplication(uid string) (*models.Application, error)
	GetApplicationByClientID(clientID string) (*models.Application, error)
	SearchApplications(name string) ([]models.Application, error)
	UpdateApplication(uid, name, description, iconURI string) (*models.Application, error)
	DeleteApplication(uid string) error

	ListRedirectURIs(applicationUID string) ([]models.RedirectURI, error)
	AddRedirectURI(applicationUID, redirectURI string) (*models.RedirectURI, error)
	UpdateRedirectURI(applicationUID, uid, redirectURI string) (*models.RedirectURI, error)
	RemoveRedirectURI(applicationUID, uid string) error
	IsRedirectURIAuthorized(clientID, redirectURI string) (bool, error)
}

type applicationService struct {
	db *gorm.DB
}

func NewApplicationService(db *gorm.DB) ApplicationService {
	return &applicationService{db: db}
}

func (s *applicationService) CreateApplication(name, description, iconURI string) (*models.Application, *ApplicationCredentials, error) {
	clientSecret := newClientSecret()
	hash, err := bcrypt.GenerateFromPassword([]byte(clientSecret), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	application := &models.Application{
		UID:         uuid.NewString(),
		Name:        name,
		Description: description,
		ClientID:    uuid.NewString(),
		SecretHash:  string(hash),
		IconURI:     iconURI,
	}
	if err := s.db.Create(application).Error; err != nil {
		return nil, nil, err
	}

	return application, &ApplicationCredentials{
		ClientID:     application.ClientID,
		ClientSecret: clientSecret,
	}, nil
}

func (s *applicationService) GetApplication(uid string) (*models.Application, error) {
	var application models.Application
	if err := s.db.Where("uid = ?", uid).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (s *applicationService) GetApplicationByClientID(clientID string) (*models.Application, error) {
	var application models.Application
	if err := s.db.Where("client_id = ?", clientID).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (s *applicationService) SearchApplications(name string) ([]models.Application, error) {
	var applications []models.Application
	query := s.db
	if name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}
	if err := query.Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

// UpdateApplication edits name, description and icon. ClientID is immutable
// once issued and the secret hash can't be changed through this path.
func (s *applicationService) UpdateApplication(uid, name, description, iconURI string) (*models.Application, error) {
	application, err := s.GetApplication(uid)
	if err != nil {
		return nil, err
	}
	application.Name = name
	application.Description = description
	application.IconURI = iconURI
	if err := s.db.Model(application).Select("name", "description", "icon_uri").Updates(application).Error; err != nil {
		return nil, err
	}
	return application, nil
}

func (s *applicationService) DeleteApplication(uid string) error {
	result := s.db.Where("uid = ?", uid).Delete(&models.Application{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (s *applicationService) ListRedirectURIs(applicationUID string) ([]models.RedirectURI, error) {
	var uris []models.RedirectURI
	if err := s.db.Where("application_uid = ?", applicationUID).Find(&uris).Error; err != nil {
		return nil, err
	}
	return uris, nil
}

func (s *applicationService) AddRedirectURI(applicationUID, redirectURI string) (*models.RedirectURI, error) {
	if _, err := s.GetApplication(applicationUID); err != nil {
		return nil, err
	}
	uri := &models.RedirectURI{
		UID:            uuid.NewString(),
		ApplicationUID: applicationUID,
		RedirectURI:    redirectURI,
	}
	if err := s.db.Create(uri).Error; err != nil {
		return nil, err
	}
	return uri, nil
}

func (s *applicationService) UpdateRedirectURI(applicationUID, uid, redirectURI string) (*models.RedirectURI, error) {
	var uri models.RedirectURI
	err := s.db.Where("uid = ? AND application_uid = ?", uid, applicationUID).First(&uri).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRedirectURINotFound
		}
		return nil, err
	}
	uri.RedirectURI = redirectURI
	if err := s.db.Model(&uri).Update("redirect_uri", redirectURI).Error; err != nil {
		return nil, err
	}
	return &uri, nil
}

func (s *applicationService) RemoveRedirectURI(applicationUID, uid string) error {
	result := s.db.Where("uid = ? AND application_uid = ?", uid, applicationUID).Delete(&models.RedirectURI{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRedirectURINotFound
	}
	return nil
}

// IsRedirectURIAuthorized reports whether the exact URI is registered for the
// client. Used by the authorize endpoint before any redirect happens.
func (s *applicationService) IsRedirectURIAuthorized(clientID, redirectURI string) (bool, error) {
	application, err := s.GetApplicationByClientID(clientID)
	if err != nil {
		return false, err
	}
	var count int64
	err = s.db.Model(&models.RedirectURI{}).
		Where("application_uid = ? AND redirect_uri = ?", application.UID, redirectURI).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// newClientSecret builds an opaque secret from two random UUIDs.
func newClientSecret() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ReplaceAll(uuid.NewString(), "-", "")
}
