package service

import (
	"context"

	"traderflow/internal/dashboard/loader"
	"traderflow/internal/dashboard/repository"
	"traderflow/internal/entity"
	"traderflow/pkg/logger"
)

// HomeViewState is the rendered state of the company list screen.
type HomeViewState struct {
	Companies []entity.Company     `json:"companies"`
	Error     *repository.APIError `json:"error,omitempty"`
	Status    loader.Status        `json:"status"`
}

// HomeService loads the company list screen.
type HomeService interface {
	Load(ctx context.Context) HomeViewState
}

// NewHomeService creates a new HomeService.
func NewHomeService(repo repository.MarketRepository, log *logger.Logger) HomeService {
	return &homeService{repo: repo, logger: log}
}

type homeService struct {
	repo   repository.MarketRepository
	logger *logger.Logger
}

// Load fetches the company list. Companies without a price are left out; a
// failure yields an error state that replaces the whole list.
func (s *homeService) Load(ctx context.Context) HomeViewState {
	res := loader.New[[]entity.Company]("companies", nil)
	slot := res.Load(ctx, func(ctx context.Context) (*[]entity.Company, error) {
		companies, err := s.repo.GetCompanies(ctx)
		if err != nil {
			return nil, err
		}
		return &companies, nil
	})

	state := HomeViewState{Status: slot.Status}
	if slot.Failed() {
		s.logger.ErrorContext(ctx, "Failed to load companies", logger.ErrorField(slot.Err))
		state.Error = repository.AsAPIError(slot.Err, "Failed to fetch companies")
		return state
	}

	state.Companies = make([]entity.Company, 0, len(*slot.Data))
	for _, c := range *slot.Data {
		if !c.Price.Valid {
			continue
		}
		state.Companies = append(state.Companies, c)
	}
	return state
}
