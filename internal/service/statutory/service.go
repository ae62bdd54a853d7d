package statutory

import (
	"context"
	"errors"
	"fmt"

	"github.com/periodica-hq/bizops-backend-go/internal/domain/statutory"
)

type StatutoryServiceImpl struct {
	statutoryRepo statutory.StatutoryRepository
}

func NewStatutoryService(statutoryRepo statutory.StatutoryRepository) statutory.StatutoryService {
	return &StatutoryServiceImpl{statutoryRepo: statutoryRepo}
}

func (s *StatutoryServiceImpl) Resolve(ctx context.Context, companyID string) (statutory.Settings, error) {
	settings, err := s.statutoryRepo.GetByCompanyID(ctx, companyID)
	if err != nil {
		if errors.Is(err, statutory.ErrSettingsNotFound) {
			return statutory.Defaults(companyID), nil
		}
		return statutory.Settings{}, fmt.Errorf("failed to resolve statutory settings: %w", err)
	}
	return settings, nil
}

func (s *StatutoryServiceImpl) GetSettings(ctx context.Context, companyID string) (statutory.SettingsResponse, error) {
	settings, err := s.Resolve(ctx, companyID)
	if err != nil {
		return statutory.SettingsResponse{}, err
	}
	return statutory.NewSettingsResponse(settings), nil
}

func (s *StatutoryServiceImpl) UpdateSettings(ctx context.Context, companyID string, req statutory.UpdateSettingsRequest) (statutory.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return statutory.SettingsResponse{}, err
	}

	// Start from the stored row, or from defaults on first edit
	current, err := s.Resolve(ctx, companyID)
	if err != nil {
		return statutory.SettingsResponse{}, err
	}

	req.Apply(&current)
	current.CompanyID = companyID

	updated, err := s.statutoryRepo.Upsert(ctx, current)
	if err != nil {
		return statutory.SettingsResponse{}, err
	}
	return statutory.NewSettingsResponse(updated), nil
}
