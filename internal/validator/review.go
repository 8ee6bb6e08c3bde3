package validator

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Mintenance-LTD/mintenance-sub002/internal/models"
)

const (
	minContentLength     = 10
	maxContentLength     = 1000
	shortContentLength   = 50
	premiumContentLength = 100
	maxMediaItems        = 5

	repeatedTokenMinLength = 5    // tokens longer than 4 chars
	repeatedTokenRatio     = 0.10 // of all tokens
	punctuationDensityMax  = 0.10
	nonAlphanumericMax     = 0.30
	uppercaseMinLength     = 10
)

// ReviewCandidate is the raw submission checked before anything is
// hashed or sent to the ledger.
type ReviewCandidate struct {
	JobID      string
	ReviewerID string
	RevieweeID string
	Rating     int
	Content    string
	Categories models.CategoryRatings
	Media      []models.MediaItem
}

// ModerationPolicy is the injectable content policy. The denylist is
// configuration, not a constant.
type ModerationPolicy struct {
	Denylist []string
}

// Issue is a single validation finding.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the outcome of review validation. Errors block submission;
// warnings only influence the verification level.
type Result struct {
	Valid    bool                     `json:"is_valid"`
	Errors   []Issue                  `json:"errors"`
	Warnings []Issue                  `json:"warnings"`
	Level    models.VerificationLevel `json:"verification_level"`
}

// ValidateReview runs the full structural, quality and business-rule
// check on a candidate review. Pure and deterministic: same input,
// same result, no side effects.
func ValidateReview(candidate ReviewCandidate, policy ModerationPolicy) Result {
	var errors, warnings []Issue

	addError := func(field, msg string) {
		errors = append(errors, Issue{Field: field, Message: msg})
	}
	addWarning := func(field, msg string) {
		warnings = append(warnings, Issue{Field: field, Message: msg})
	}

	// Required identifiers
	if candidate.JobID == "" {
		addError("job_id", "job id is required")
	}
	if candidate.ReviewerID == "" {
		addError("reviewer_id", "reviewer id is required")
	}
	if candidate.RevieweeID == "" {
		addError("reviewee_id", "reviewee id is required")
	}
	if candidate.ReviewerID != "" && candidate.ReviewerID == candidate.RevieweeID {
		addError("reviewer_id", "you cannot review yourself")
	}

	// Numeric ranges
	if candidate.Rating < 1 || candidate.Rating > 5 {
		addError("rating", "rating must be between 1 and 5")
	}
	for _, category := range []struct {
		field string
		value int
	}{
		{"categories.quality", candidate.Categories.Quality},
		{"categories.timeliness", candidate.Categories.Timeliness},
		{"categories.communication", candidate.Categories.Communication},
		{"categories.professionalism", candidate.Categories.Professionalism},
		{"categories.value", candidate.Categories.Value},
	} {
		if category.value < 1 || category.value > 5 {
			addError(category.field, "category score must be between 1 and 5")
		}
	}

	// Content length
	contentLen := utf8.RuneCountInString(candidate.Content)
	switch {
	case contentLen < minContentLength:
		addError("content", "content must be at least 10 characters")
	case contentLen > maxContentLength:
		addError("content", "content must be at most 1000 characters")
	case contentLen < shortContentLength:
		addWarning("content", "content is short; longer reviews are more useful")
	}

	// Media
	if len(candidate.Media) > maxMediaItems {
		addError("media", "at most 5 media items are allowed")
	}
	for _, item := range candidate.Media {
		if item.ID == "" || item.Hash == "" || !item.Type.Valid() {
			addError("media", "media item is malformed")
			continue
		}
		if !item.Verified {
			addWarning("media", "media item has not been verified")
		}
	}

	// Content quality and moderation
	if contentLen >= minContentLength && contentLen <= maxContentLength {
		checkContentQuality(candidate.Content, addWarning)
		checkContentModeration(candidate.Content, policy, addError)
	}

	// Level is decided before the suspicious-pattern heuristic below:
	// a clean all-fives review still classifies premium.
	level := classifyLevel(contentLen, warnings)

	if allCategoriesAtMax(candidate.Categories) {
		addWarning("categories", "all category scores are at the maximum")
	}

	return Result{
		Valid:    len(errors) == 0,
		Errors:   errors,
		Warnings: warnings,
		Level:    level,
	}
}

func classifyLevel(contentLen int, warnings []Issue) models.VerificationLevel {
	switch {
	case len(warnings) == 0 && contentLen >= premiumContentLength:
		return models.VerificationLevelPremium
	case contentLen >= shortContentLength:
		return models.VerificationLevelEnhanced
	default:
		return models.VerificationLevelBasic
	}
}

func allCategoriesAtMax(c models.CategoryRatings) bool {
	for _, v := range c.Values() {
		if v != 5 {
			return false
		}
	}
	return true
}

func checkContentQuality(content string, addWarning func(field, msg string)) {
	tokens := strings.Fields(strings.ToLower(content))

	if repeated := repeatedToken(tokens); repeated != "" {
		addWarning("content", "token '"+repeated+"' repeats suspiciously often")
	}

	if utf8.RuneCountInString(content) > uppercaseMinLength && isShouting(content) {
		addWarning("content", "content is entirely uppercase")
	}

	if punctuationDensity(content) > punctuationDensityMax {
		addWarning("content", "content has unusually dense punctuation")
	}
}

func checkContentModeration(content string, policy ModerationPolicy, addError func(field, msg string)) {
	lowered := strings.ToLower(content)
	for _, term := range policy.Denylist {
		if term != "" && strings.Contains(lowered, strings.ToLower(term)) {
			addError("content", "content contains a disallowed term")
			break
		}
	}

	if nonAlphanumericRatio(content) > nonAlphanumericMax {
		addError("content", "content contains too many non-alphanumeric characters")
	}
}

// repeatedToken returns a token longer than 4 chars whose occurrence
// count exceeds 10% of all tokens, or "".
func repeatedToken(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}

	counts := make(map[string]int)
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) >= repeatedTokenMinLength {
			counts[tok]++
		}
	}

	// Walk tokens in order so the reported offender is stable.
	threshold := float64(len(tokens)) * repeatedTokenRatio
	for _, tok := range tokens {
		if float64(counts[tok]) > threshold {
			return tok
		}
	}
	return ""
}

func isShouting(content string) bool {
	hasLetter := false
	for _, r := range content {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

func punctuationDensity(content string) float64 {
	total := 0
	punct := 0
	for _, r := range content {
		total++
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			punct++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(punct) / float64(total)
}

// nonAlphanumericRatio counts characters that are neither letters,
// digits nor whitespace.
func nonAlphanumericRatio(content string) float64 {
	total := 0
	other := 0
	for _, r := range content {
		total++
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			other++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(other) / float64(total)
}
