package model

import (
	"fmt"
	"strings"
	"voyage/shared/failure"
)

// ValidateParty checks that travelers match the declared party exactly and that
// every traveler is complete. Adults must be at least AdultMinAge years old.
func ValidateParty(adults, children, infants int, travelers []Traveler) error {
	if adults < 1 {
		return failure.Validation("at least one adult is required")
	}

	if children < 0 || infants < 0 {
		return failure.Validation("party counts cannot be negative")
	}

	if expected := adults + children + infants; len(travelers) != expected {
		return failure.Validation(fmt.Sprintf("expected %d travelers, got %d", expected, len(travelers)))
	}

	counts := map[TravelerType]int{}

	for i, traveler := range travelers {
		if strings.TrimSpace(traveler.Name) == "" {
			return failure.Validation(fmt.Sprintf("travelers[%d].name is required", i))
		}

		if len(strings.TrimSpace(traveler.PassportNumber)) < PassportMinLength {
			return failure.Validation(fmt.Sprintf("travelers[%d].passport_number must be at least %d characters", i, PassportMinLength))
		}

		if traveler.Age < 0 {
			return failure.Validation(fmt.Sprintf("travelers[%d].age cannot be negative", i))
		}

		switch traveler.Type {
		case TravelerAdult:
			if traveler.Age < AdultMinAge {
				return failure.Validation(fmt.Sprintf("travelers[%d] must be at least %d years old to travel as an adult", i, AdultMinAge))
			}
		case TravelerChild, TravelerInfant:
		default:
			return failure.Validation(fmt.Sprintf("travelers[%d].type %q is not valid", i, traveler.Type))
		}

		counts[traveler.Type]++
	}

	if counts[TravelerAdult] != adults || counts[TravelerChild] != children || counts[TravelerInfant] != infants {
		return failure.Validation("traveler types do not match the declared party")
	}

	return nil
}
