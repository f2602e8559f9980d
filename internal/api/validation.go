package api

import (
	"errors"

	"genesis_architect/internal/types"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the closed-set tags used in request structs to
// gin's validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	tags := map[string]validator.Func{
		"apptype": func(fl validator.FieldLevel) bool {
			return types.AppType(fl.Field().String()).Valid()
		},
		"techstack": func(fl validator.FieldLevel) bool {
			return types.TechStack(fl.Field().String()).Valid()
		},
		"architecture": func(fl validator.FieldLevel) bool {
			return types.Architecture(fl.Field().String()).Valid()
		},
		"voice": func(fl validator.FieldLevel) bool {
			return types.Speaker(fl.Field().String()).Valid()
		},
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}
