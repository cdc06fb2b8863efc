package handler

import (
	"sync"

	"loan_portal/internal/utils"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by request models.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
			return utils.IsValidPhone(fl.Field().String())
		})
	})
}
