package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"volunteer-connect/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrTermsNotAccepted   = errors.New("terms of service must be accepted")
)

// AutoMigrate creates the tables owned by the services in this package.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Account{}, &model.ContactMessage{})
}

type AuthService struct {
	db     *gorm.DB
	tokens *TokenIssuer
}

func NewAuthService(db *gorm.DB, tokens *TokenIssuer) *AuthService {
	return &AuthService{db: db, tokens: tokens}
}

// Login checks the credentials and returns the account with a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.Account, string, error) {
	var a model.Account
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("query account: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(&a)
	if err != nil {
		return nil, "", err
	}
	return &a, token, nil
}

func (s *AuthService) RegisterVolunteer(ctx context.Context, req model.VolunteerRegistration) (*model.Account, error) {
	if !req.TermsAccepted {
		return nil, ErrTermsNotAccepted
	}
	a := &model.Account{
		Email:         req.Email,
		UserType:      model.UserTypeVolunteer,
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Skill:         req.Skills,
		Bio:           req.Bio,
		TermsAccepted: true,
	}
	if err := s.create(ctx, a, req.Password); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AuthService) RegisterOrganization(ctx context.Context, req model.OrganizationRegistration) (*model.Account, error) {
	if !req.TermsAccepted {
		return nil, ErrTermsNotAccepted
	}
	a := &model.Account{
		Email:         req.Email,
		UserType:      model.UserTypeOrganization,
		OrgName:       strings.TrimSpace(req.OrgName),
		Phone:         req.Phone,
		OrgType:       req.OrgType,
		Description:   req.Description,
		Website:       req.Website,
		TermsAccepted: true,
	}
	if err := s.create(ctx, a, req.Password); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AuthService) create(ctx context.Context, a *model.Account, password string) error {
	a.Email = normalizeEmail(a.Email)

	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Account{}).Where("email = ?", a.Email).Count(&n).Error; err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if n > 0 {
		return ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	a.Password = string(hash)

	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *AuthService) Get(ctx context.Context, id int) (*model.Account, error) {
	var a model.Account
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, fmt.Errorf("get account %d: %w", id, err)
	}
	return &a, nil
}

// UpdateProfile applies the edit form to account id. Changing the email to
// one held by another account fails with ErrEmailTaken.
func (s *AuthService) UpdateProfile(ctx context.Context, id int, req model.ProfileUpdate) (*model.Account, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	if email != a.Email {
		var n int64
		if err := s.db.WithContext(ctx).Model(&model.Account{}).
			Where("email = ? AND id <> ?", email, id).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if n > 0 {
			return nil, ErrEmailTaken
		}
	}

	a.Email = email
	a.Phone = strings.TrimSpace(req.Phone)
	a.Location = strings.TrimSpace(req.Location)
	if a.UserType == model.UserTypeOrganization {
		if name := strings.TrimSpace(req.OrgName); name != "" {
			a.OrgName = name
		}
		a.Description = req.About
	} else {
		if first := strings.TrimSpace(req.FirstName); first != "" {
			a.FirstName = first
		}
		if last := strings.TrimSpace(req.LastName); last != "" {
			a.LastName = last
		}
		a.Skill = strings.TrimSpace(req.Skills)
		a.Bio = req.About
	}

	if err := s.db.WithContext(ctx).Save(a).Error; err != nil {
		return nil, fmt.Errorf("update account %d: %w", id, err)
	}
	return a, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
