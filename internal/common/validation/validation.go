package validation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	mu         sync.Mutex
	registered = map[string]bool{}
)

// Register adds a custom tag to gin's binding validator. Registering a tag
// that already exists is a no-op.
func Register(tag string, fn validator.Func) error {
	mu.Lock()
	defer mu.Unlock()

	if registered[tag] {
		return nil
	}
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation(tag, fn); err != nil {
		return fmt.Errorf("register %s: %w", tag, err)
	}
	registered[tag] = true
	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister(tag string, fn validator.Func) {
	if err := Register(tag, fn); err != nil {
		panic(err)
	}
}

// FieldError returns the first field failure carried by a binding error.
// Decode errors (malformed JSON, wrong types) have none.
func FieldError(err error) (validator.FieldError, bool) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0], true
	}
	return nil, false
}
