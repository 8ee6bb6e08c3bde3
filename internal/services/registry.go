package services

import (
	"github.com/Mintenance-LTD/mintenance-sub002/internal/contentstore"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/ledger"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/repositories"
	"github.com/Mintenance-LTD/mintenance-sub002/internal/validator"
)

// ServiceContainer holds every service of the application.
type ServiceContainer struct {
	ReviewService     ReviewService
	ReputationService ReputationService
	DisputeService    DisputeService
}

// NewServiceContainer wires the services against the shared
// repositories, the transaction coordinator and the content store.
func NewServiceContainer(
	reviewRepo repositories.ReviewRepository,
	txRepo repositories.TransactionRepository,
	reputationRepo repositories.ReputationRepository,
	disputeRepo repositories.DisputeRepository,
	coordinator *ledger.Coordinator,
	store *contentstore.Store,
	policy validator.ModerationPolicy,
) *ServiceContainer {
	reputationService := NewReputationService(reputationRepo)
	return &ServiceContainer{
		ReviewService:     NewReviewService(reviewRepo, txRepo, reputationService, coordinator, store, policy),
		ReputationService: reputationService,
		DisputeService:    NewDisputeService(disputeRepo, reviewRepo, reputationService),
	}
}
