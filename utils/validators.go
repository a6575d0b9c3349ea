package utils

import (
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yakir1992/todoapp/model"
)

const (
	DateLayout        = "2006-01-02"
	MinPasswordLength = 6
)

var (
	Validate     = validator.New()
	registerOnce sync.Once
)

// RegisterCustomValidators adds the todo and auth rules to v.
func RegisterCustomValidators(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"password":      ValidatePasswordRule,
		"calendar_date": validateCalendarDate,
		"todo_color":    validateColor,
		"frequency":     validateFrequency,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// InitValidator registers the custom rules on the package validator and on
// gin's binding engine. Safe to call more than once.
func InitValidator() error {
	var err error
	registerOnce.Do(func() {
		if err = RegisterCustomValidators(Validate); err != nil {
			return
		}
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			err = RegisterCustomValidators(v)
		}
	})
	return err
}

func ValidatePasswordRule(fl validator.FieldLevel) bool {
	return ValidatePassword(fl.Field().String())
}

// ValidatePassword enforces the identity provider's minimum: six characters.
func ValidatePassword(password string) bool {
	return utf8.RuneCountInString(password) >= MinPasswordLength
}

func ValidEmail(email string) bool {
	return Validate.Var(email, "required,email") == nil
}

func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func validateCalendarDate(fl validator.FieldLevel) bool {
	return ValidDate(fl.Field().String())
}

func validateColor(fl validator.FieldLevel) bool {
	return model.Color(fl.Field().String()).Valid()
}

func validateFrequency(fl validator.FieldLevel) bool {
	return model.Frequency(fl.Field().String()).Valid()
}
