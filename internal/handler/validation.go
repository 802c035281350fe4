package handler

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"rail/internal/domain"
	"rail/internal/service"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags used by the request
// types: hhmm, weekdays, fare, sortkey and serviceclass. Safe to call more
// than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			_, err := domain.ParseClock(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("weekdays", func(fl validator.FieldLevel) bool {
			days, err := domain.ParseDaySet(fl.Field().String())
			return err == nil && !days.IsEmpty()
		})
		_ = v.RegisterValidation("fare", func(fl validator.FieldLevel) bool {
			d, err := decimal.NewFromString(fl.Field().String())
			return err == nil && !d.IsNegative()
		})
		_ = v.RegisterValidation("sortkey", func(fl validator.FieldLevel) bool {
			_, err := service.ParseSortKey(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("serviceclass", func(fl validator.FieldLevel) bool {
			_, err := domain.ParseServiceClass(fl.Field().String())
			return err == nil
		})
	})
}

func bindingError(err error) ErrorResponse {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		fe := errs[0]
		return ErrorResponse{Error: "invalid " + fe.Field() + ": failed " + fe.Tag() + " check"}
	}
	return ErrorResponse{Error: "invalid request: " + err.Error()}
}
