package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var (
	messages = map[string]string{
		"required":    "{field} is required",
		"notblank":    "{field} must not be blank",
		"gte":         "{field} must be greater than or equal to {param}",
		"gt":          "{field} must be greater than {param}",
		"lte":         "{field} must be less than or equal to {param}",
		"oneof":       "{field} must be one of {param}",
		"max":         "{field} must be less than or equal to {param}",
		"min":         "{field} must be greater than or equal to {param}",
		"email":       "{field} must be a valid email address",
		"passport":    "{field} must be an alphanumeric passport number of at least 6 characters",
		"gtfield":     "{field} must be after {param}",
		"datetime":    "{field} must match the format {param}",
		"required_if": "{field} is required",
	}
)

// message renders the first failed rule using the namespaced json field,
// e.g. "travelers[1].passport_number is required".
func message(err error) string {
	var valErrors val.ValidationErrors

	if errors.As(err, &valErrors) {
		for _, valErr := range valErrors {
			errStr := messages[valErr.Tag()]
			if errStr == "" {
				continue
			}

			field := valErr.Namespace()
			if _, rest, found := strings.Cut(field, "."); found {
				field = rest
			}

			errStr = strings.ReplaceAll(errStr, "{field}", field)
			errStr = strings.ReplaceAll(errStr, "{param}", valErr.Param())

			return errStr
		}

		return valErrors.Error()
	}

	return err.Error()
}
