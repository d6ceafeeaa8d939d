package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ougirez/energy-mock/internal/pkg/constants"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate turns validation failures into 400 errors naming the offending
// query parameters.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	missing := make([]string, 0, len(verrs))
	invalid := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := toSnake(fe.Field())
		if fe.Tag() == "required" {
			missing = append(missing, name)
		} else {
			invalid = append(invalid, name)
		}
	}

	if len(missing) > 0 {
		return constants.NewCodedError(
			fmt.Sprintf("%s: %s", constants.ErrBadRequest.Error(), strings.Join(missing, ", ")),
			http.StatusBadRequest,
		)
	}
	return constants.NewCodedError("Invalid parameters: "+strings.Join(invalid, ", "), http.StatusBadRequest)
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
