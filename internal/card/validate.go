package card

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldProblem names one invalid field by its JSON path.
type FieldProblem struct {
	Field   string `json:"field"`
	Problem string `json:"problem"`
}

// ValidationError lists every problem found in a Document.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field+": "+p.Problem)
	}
	return "invalid card document: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, problem string) {
	e.Problems = append(e.Problems, FieldProblem{Field: field, Problem: problem})
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks enums, sizes and colors. Coordinates are deliberately not
// range-checked.
func Validate(d Document) error {
	verr := &ValidationError{}

	if err := structValidator().Struct(d); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validate document: %w", err)
		}
		for _, fe := range fieldErrs {
			verr.add(jsonPath(fe.Namespace()), describe(fe))
		}
	}

	checkColor := func(field, value string) {
		if _, err := ParseColor(value); err != nil {
			verr.add(field, err.Error())
		}
	}
	checkColor("backgroundColor", d.BackgroundColor)
	checkColor("textColor", d.TextColor)
	for i, s := range d.Services {
		if s.Color != "" {
			checkColor(fmt.Sprintf("services[%d].color", i), s.Color)
		}
	}
	ds := d.DesignStyle
	if ds.BackgroundGradient && len(ds.GradientColors) < 2 {
		verr.add("designStyle.gradientColors", "at least 2 colors required for a background gradient")
	}
	for i, c := range ds.GradientColors {
		checkColor(fmt.Sprintf("designStyle.gradientColors[%d]", i), c)
	}

	if len(verr.Problems) > 0 {
		return verr
	}
	return nil
}

func jsonPath(ns string) string {
	// Namespace is "Document.designStyle.pattern"; drop the root type.
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fmt.Sprint(fe.Value()))
	case "gte":
		return "must be >= " + fe.Param()
	}
	return "failed " + fe.Tag()
}
