package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their YAML keys so messages match the catalog file.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every level and rejects duplicate names.
func Validate(levels []LevelDefinition) error {
	if len(levels) == 0 {
		return ErrEmptyCatalog
	}
	seen := make(map[string]int, len(levels))
	for i, lvl := range levels {
		if err := validate.Struct(lvl); err != nil {
			return fmt.Errorf("%w: level %d (%q): %s", ErrInvalidLevel, i+1, lvl.Name, describe(err))
		}
		key := normalizeName(lvl.Name)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%w: level %d (%q) repeats the name of level %d", ErrInvalidLevel, i+1, lvl.Name, prev+1)
		}
		seen[key] = i
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fieldMessage(fe))
	}
	return strings.Join(parts, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gte":
		return fmt.Sprintf("%s must be >= %s (got %v)", field, fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be > %s (got %v)", field, fe.Param(), fe.Value())
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color (got %q)", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %q", field, fe.Tag())
	}
}

// fieldPath drops the struct name from the namespace: "LevelDefinition.display.color" -> "display.color".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}
