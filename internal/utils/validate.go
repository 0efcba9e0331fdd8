package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidateStruct runs tag validation on a request payload and returns an
// error whose message enumerates every violated field.
func ValidateStruct(payload interface{}) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	violations := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		violations = append(violations, fmt.Sprintf("%s: failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%s", strings.Join(violations, ", "))
}
