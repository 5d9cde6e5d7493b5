package repositories

import (
	"context"
	"fmt"
	"sync"

	"github.com/mlacademy/backend/internal/models"
	"go.uber.org/zap"
)

type leadRepository struct {
	store  KeyValueStore
	logger *zap.Logger
	mu     sync.Mutex
}

// NewLeadRepository creates a repository of enrollment leads
func NewLeadRepository(store KeyValueStore, logger *zap.Logger) *leadRepository {
	return &leadRepository{
		store:  store,
		logger: logger,
	}
}

// GetAll retrieves the leads, newest first
func (r *leadRepository) GetAll(ctx context.Context) ([]models.Lead, error) {
	leads, err := r.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get leads: %w", err)
	}
	return leads, nil
}

// Update runs a read-modify-write cycle over the lead list.
// When fn returns an error nothing is written and the error is returned unchanged.
func (r *leadRepository) Update(ctx context.Context, fn func([]models.Lead) ([]models.Lead, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	leads, err := r.load(ctx)
	if err != nil {
		return fmt.Errorf("failed to get leads: %w", err)
	}

	updated, err := fn(leads)
	if err != nil {
		return err
	}

	if err := writeJSON(ctx, r.store, keyLeads, updated); err != nil {
		return fmt.Errorf("failed to save leads: %w", err)
	}
	return nil
}

func (r *leadRepository) load(ctx context.Context) ([]models.Lead, error) {
	var leads []models.Lead
	found, err := readJSON(ctx, r.store, r.logger, keyLeads, &leads)
	if err != nil {
		return nil, err
	}
	if !found || leads == nil {
		return []models.Lead{}, nil
	}
	return leads, nil
}
