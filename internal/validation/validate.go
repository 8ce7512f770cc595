// Package validation checks decoded request bodies for required fields.
package validation

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() { validate = validator.New() })
	return validate
}

// Validate reports whether every field in required is present in input with
// a non-zero value. Absent keys, null, "", 0 and false all count as missing.
func Validate(input map[string]any, required []string) bool {
	v := instance()
	for _, field := range required {
		if err := v.Var(input[field], "required"); err != nil {
			return false
		}
	}
	return true
}

