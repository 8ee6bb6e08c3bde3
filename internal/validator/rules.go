package validator

import (
	"log"

	"github.com/go-playground/validator/v10"

	"github.com/Mintenance-LTD/mintenance-sub002/internal/models"
)

// registerCustomRules registers the domain enum rules on the shared
// validator instance.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// A rule that fails to register is a startup error.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-media-type", validateMediaType)
	mustRegister("is-dispute-status", validateDisputeStatus)
	mustRegister("is-verification-level", validateVerificationLevel)
}

func validateMediaType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' handles empty values
	}
	return models.MediaType(value).Valid()
}

func validateDisputeStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.DisputeStatus(value) {
	case models.DisputeStatusPending, models.DisputeStatusUnderReview,
		models.DisputeStatusResolved, models.DisputeStatusRejected:
		return true
	default:
		return false
	}
}

func validateVerificationLevel(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.VerificationLevel(value) {
	case models.VerificationLevelBasic, models.VerificationLevelEnhanced, models.VerificationLevelPremium:
		return true
	default:
		return false
	}
}
