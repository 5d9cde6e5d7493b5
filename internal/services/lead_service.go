package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mlacademy/backend/internal/models"
	"go.uber.org/zap"
)

// LeadRepository is the interface that wraps methods for the enrollment lead list
type LeadRepository interface {
	// Method GetAll retrieves every lead, newest first.
	//
	// If some error occurs during data retrieve, the error will be returned together with "nil" value.
	GetAll(ctx context.Context) ([]models.Lead, error)
	// Method Update runs a read-modify-write cycle over the lead list.
	//
	// "fn" parameter receives the current list and returns the list to store.
	// If "fn" returns an error, nothing is written and that error is returned.
	//
	// If some error occurs during data read or write, the error will be returned.
	Update(ctx context.Context, fn func([]models.Lead) ([]models.Lead, error)) error
}

type leadService struct {
	repo   LeadRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewLeadService creates a new lead intake service
func NewLeadService(repo LeadRepository, logger *zap.Logger) *leadService {
	return &leadService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// SubmitLead records an enrollment request at the head of the list
func (s *leadService) SubmitLead(ctx context.Context, req *models.CreateLeadRequest) (*models.Lead, error) {
	name := strings.TrimSpace(req.Name)
	phone := strings.TrimSpace(req.Phone)
	if name == "" || phone == "" {
		return nil, fmt.Errorf("%w: name and phone are required", ErrValidation)
	}

	lead := models.Lead{
		ID:     "lead_" + uuid.New().String(),
		Name:   name,
		Phone:  phone,
		Date:   s.now(),
		Status: models.LeadStatusNew,
	}

	err := s.repo.Update(ctx, func(leads []models.Lead) ([]models.Lead, error) {
		return append([]models.Lead{lead}, leads...), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("lead submitted", zap.String("lead_id", lead.ID))
	return &lead, nil
}

// ListLeads retrieves every lead, newest first
func (s *leadService) ListLeads(ctx context.Context) ([]models.Lead, error) {
	leads, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if leads == nil {
		leads = []models.Lead{}
	}
	return leads, nil
}

// MarkContacted moves a lead to the contacted status. Contacted leads stay contacted.
func (s *leadService) MarkContacted(ctx context.Context, id string) error {
	return s.repo.Update(ctx, func(leads []models.Lead) ([]models.Lead, error) {
		idx := slices.IndexFunc(leads, func(l models.Lead) bool { return l.ID == id })
		if idx < 0 {
			return nil, ErrLeadNotFound
		}
		leads[idx].Status = models.LeadStatusContacted
		return leads, nil
	})
}

// DeleteLead removes a lead; an unknown id is not an error
func (s *leadService) DeleteLead(ctx context.Context, id string) error {
	return s.repo.Update(ctx, func(leads []models.Lead) ([]models.Lead, error) {
		return slices.DeleteFunc(leads, func(l models.Lead) bool { return l.ID == id }), nil
	})
}
