package dto

type CreateDisputeRequest struct {
	ReviewID string   `json:"review_id" validate:"required"`
	Reason   string   `json:"reason" validate:"required,min=10,max=2000"`
	Evidence []string `json:"evidence" validate:"max=10"`
}

type ResolveDisputeRequest struct {
	Outcome    string `json:"outcome" validate:"required,oneof=resolved rejected"`
	Resolution string `json:"resolution" validate:"required,min=5,max=2000"`
}
