package achievement

import (
	"fmt"
	"strings"
)

// ValidationError reports the first violated field of a CreateInput.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Validate checks a CreateInput before any persistence call. It returns the
// first violation found, in field order.
func Validate(input CreateInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if strings.TrimSpace(input.Description) == "" {
		return &ValidationError{Field: "description", Message: "must not be empty"}
	}
	if input.BasePoints < 0 {
		return &ValidationError{Field: "basePoints", Message: "must not be negative"}
	}
	prev := int64(0)
	for i, upgrade := range input.Upgrades {
		if strings.TrimSpace(upgrade.Name) == "" {
			return &ValidationError{Field: fmt.Sprintf("upgrades[%d].name", i), Message: "must not be empty"}
		}
		if strings.TrimSpace(upgrade.Description) == "" {
			return &ValidationError{Field: fmt.Sprintf("upgrades[%d].description", i), Message: "must not be empty"}
		}
		if upgrade.RequiredCount <= 0 {
			return &ValidationError{Field: fmt.Sprintf("upgrades[%d].requiredCount", i), Message: "must be positive"}
		}
		if upgrade.RequiredCount <= prev {
			return &ValidationError{Field: fmt.Sprintf("upgrades[%d].requiredCount", i), Message: "must be greater than the previous tier"}
		}
		if upgrade.Points < 0 {
			return &ValidationError{Field: fmt.Sprintf("upgrades[%d].points", i), Message: "must not be negative"}
		}
		prev = upgrade.RequiredCount
	}
	return nil
}
