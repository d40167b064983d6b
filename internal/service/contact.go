package service

import (
	"context"
	"fmt"
	"strings"

	"volunteer-connect/internal/model"

	"gorm.io/gorm"
)

type ContactService struct{ db *gorm.DB }

func NewContactService(db *gorm.DB) *ContactService { return &ContactService{db: db} }

func (s *ContactService) Submit(ctx context.Context, req model.ContactRequest) (*model.ContactMessage, error) {
	m := &model.ContactMessage{
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       normalizeEmail(req.Email),
		InquiryType: req.InquiryType,
		Message:     req.Message,
	}
	if m.InquiryType == "" {
		m.InquiryType = "general"
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, fmt.Errorf("insert contact message: %w", err)
	}
	return m, nil
}
