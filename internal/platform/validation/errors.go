package validation

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ErrorBody is a standard validation error payload.
type ErrorBody struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// Failed builds the payload for per-field problems found outside the validator.
func Failed(fields map[string][]string) ErrorBody {
	return ErrorBody{Error: "validation_failed", Fields: fields}
}

// ErrorResponse converts a validator error into a structured response.
func ErrorResponse(err error) ErrorBody {
	fields := map[string][]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = append(fields[fe.Field()], fe.Tag())
		}
	}
	if len(fields) == 0 {
		return ErrorBody{Error: err.Error()}
	}
	return Failed(fields)
}
