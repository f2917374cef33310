package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidRule wraps every configuration problem reported by Validate.
var ErrInvalidRule = errors.New("invalid rule")

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate reports whether a rule may be saved. The rule is checked after normalization.
func Validate(r Rule) error {
	r = r.Normalized()

	var problems []error
	if err := structValidator().Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("%w: %v", ErrInvalidRule, err)
		}
		for _, fe := range fieldErrs {
			problems = append(problems, describeFieldError(fe))
		}
	}

	if r.Source == BodyScan && strings.TrimSpace(r.Pattern) == "" {
		problems = append(problems, errors.New("rule value cannot be blank"))
	}
	if r.Source == BodyScan && r.Predicate == Regex {
		if _, err := regexp.Compile(r.Pattern); err != nil {
			problems = append(problems, fmt.Errorf("invalid regex pattern: %w", err))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w %q: %w", ErrInvalidRule, r.Key, errors.Join(problems...))
}

func describeFieldError(fe validator.FieldError) error {
	switch fe.Tag() {
	case "required":
		return errors.New("key cannot be blank")
	case "oneof":
		return fmt.Errorf("%s must be one of [%s], got %q", strings.ToLower(fe.Field()), fe.Param(), fe.Value())
	}
	return fmt.Errorf("%s failed %s validation", strings.ToLower(fe.Field()), fe.Tag())
}
