package handlers

import (
	"github.com/Mintenance-LTD/mintenance-sub002/internal/services"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/validator"
)

// AppHandlers holds every handler of the application.
type AppHandlers struct {
	ReviewHandler     *ReviewHandler
	ReputationHandler *ReputationHandler
	DisputeHandler    *DisputeHandler
}

func NewAppHandlers(container *services.ServiceContainer, v *validator.Validator, jwtSecret string) *AppHandlers {
	base := NewBaseHandler(v)
	return &AppHandlers{
		ReviewHandler:     NewReviewHandler(base, container.ReviewService, jwtSecret),
		ReputationHandler: NewReputationHandler(base, container.ReputationService),
		DisputeHandler:    NewDisputeHandler(base, container.DisputeService, jwtSecret),
	}
}
