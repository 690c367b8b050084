package handlers

import (
	"sync"

	"github.com/SscSPs/fintrack_backend/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// RegisterValidators adds the custom binding rules used by the request DTOs
// to gin's default validator. Safe to call more than once.
func RegisterValidators() {
	registerValidatorsOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("currencycode", validateCurrencyCode)
		}
	})
}

// validateCurrencyCode accepts three letters in any case.
func validateCurrencyCode(fl validator.FieldLevel) bool {
	_, err := domain.NormalizeCurrencyCode(fl.Field().String())
	return err == nil
}
