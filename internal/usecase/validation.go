package usecase

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

const (
	maxTemplateLength = 1000
	minPacing         = time.Minute
	maxDailyCap       = 500
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateStartCampaignInput(input StartCampaignInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Category) == "" {
		errors = append(errors, ValidationError{"category", "is required"})
	} else if len(input.Category) > 100 {
		errors = append(errors, ValidationError{"category", "must not exceed 100 characters"})
	}

	if strings.TrimSpace(input.Location) == "" {
		errors = append(errors, ValidationError{"location", "is required"})
	} else if len(input.Location) > 150 {
		errors = append(errors, ValidationError{"location", "must not exceed 150 characters"})
	}

	if strings.TrimSpace(input.Template) == "" {
		errors = append(errors, ValidationError{"template", "is required"})
	} else if len(input.Template) > maxTemplateLength {
		errors = append(errors, ValidationError{"template", fmt.Sprintf("must not exceed %d characters", maxTemplateLength)})
	}

	if input.PacingSeconds < 0 {
		errors = append(errors, ValidationError{"pacing_seconds", "must not be negative"})
	} else if input.PacingSeconds > 0 && time.Duration(input.PacingSeconds)*time.Second < minPacing {
		errors = append(errors, ValidationError{"pacing_seconds", "must be at least 60 seconds"})
	}

	if input.DailyCap < 0 || input.DailyCap > maxDailyCap {
		errors = append(errors, ValidationError{"daily_cap", fmt.Sprintf("must be between 1 and %d", maxDailyCap)})
	}

	if input.MinYield < 0 {
		errors = append(errors, ValidationError{"min_yield", "must not be negative"})
	}

	return errors
}

func validationDomainError(errs []ValidationError) *DomainError {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(parts, ", "),
	}
}

// NormalizePhone keeps digits only and prefixes Brazil's country code on
// local numbers (DDD + 8 or 9 digits). Returns "" when nothing usable is left.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := strings.TrimLeft(b.String(), "0")

	switch {
	case len(digits) < 8:
		return ""
	case len(digits) == 10 || len(digits) == 11:
		return "55" + digits
	}
	return digits
}
