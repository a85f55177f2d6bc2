// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"strings"

	"budgetmaster/internal/models"
	"budgetmaster/internal/month"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom validators on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("transaction_category", validateTransactionCategory)
	_ = v.RegisterValidation("month_key", validateMonthKey)
	_ = v.RegisterValidation("notblank", validateNotBlank)
}

func validateTransactionCategory(fl validator.FieldLevel) bool {
	return models.TransactionCategory(fl.Field().String()).Valid()
}

func validateMonthKey(fl validator.FieldLevel) bool {
	_, err := month.Parse(fl.Field().String())
	return err == nil
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
