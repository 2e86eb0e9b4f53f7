package service

import (
	"context"
	"strconv"

	"traderflow/internal/dashboard/repository"
	"traderflow/pkg/common"
	"traderflow/pkg/logger"
)

// PreferenceService manages per-session display preferences.
type PreferenceService interface {
	DarkMode(ctx context.Context, sessionID string) (bool, error)
	ToggleDarkMode(ctx context.Context, sessionID string) (bool, error)
}

// NewPreferenceService creates a new PreferenceService.
func NewPreferenceService(repo repository.PreferenceRepository, log *logger.Logger) PreferenceService {
	return &preferenceService{repo: repo, logger: log}
}

type preferenceService struct {
	repo   repository.PreferenceRepository
	logger *logger.Logger
}

// DarkMode returns the stored mode; anything other than "true" is light mode.
func (s *preferenceService) DarkMode(ctx context.Context, sessionID string) (bool, error) {
	value, ok, err := s.repo.Get(ctx, sessionID, common.PreferenceKeyDarkMode)
	if err != nil {
		return false, err
	}
	return ok && value == "true", nil
}

// ToggleDarkMode flips the stored mode and returns the new value. The flip is
// a single repository update, so concurrent toggles never cancel out.
func (s *preferenceService) ToggleDarkMode(ctx context.Context, sessionID string) (bool, error) {
	value, err := s.repo.Update(ctx, sessionID, common.PreferenceKeyDarkMode, func(current string, ok bool) string {
		return strconv.FormatBool(!(ok && current == "true"))
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to store dark mode preference", logger.ErrorField(err))
		return false, err
	}
	next := value == "true"
	s.logger.DebugContext(ctx, "Dark mode toggled", logger.Field("dark_mode", next))
	return next, nil
}
