package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

// ReadAndValidateRequest binds the request into req, applies struct
// defaults, and validates it. Returns nil or a []ValidationError payload.
func ReadAndValidateRequest(c echo.Context, req interface{}) interface{} {
	if err := c.Bind(req); err != nil {
		return validationPayload(err)
	}
	if err := defaults.Set(req); err != nil {
		return validationPayload(err)
	}
	if err := validate.StructCtx(c.Request().Context(), req); err != nil {
		return validationPayload(err)
	}
	return nil
}

func validationPayload(err error) interface{} {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		errs := make([]ValidationError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			errs = append(errs, fieldError(fe))
		}
		return errs
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return []ValidationError{{
			Code:    "ERR_UNKNOWN",
			Message: fmt.Sprintf("%v", he.Message),
		}}
	}

	return []ValidationError{{Code: "ERR_UNKNOWN", Message: err.Error()}}
}

// fieldError renders one validator failure. Only the tags used by the API's
// request structs get tailored messages.
func fieldError(fe validator.FieldError) ValidationError {
	field := fe.Field()
	params := map[string]interface{}{}

	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", field)
	case "gte":
		msg = fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
		params["min"] = fe.Param()
	case "lte":
		msg = fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
		params["max"] = fe.Param()
	case "oneof":
		msg = fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
		params["options"] = strings.Split(fe.Param(), " ")
	default:
		msg = fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}

	if len(params) == 0 {
		params = nil
	}
	return ValidationError{
		Code:    "ERR_" + strings.ToUpper(fe.Tag()),
		Field:   field,
		Message: msg,
		Params:  params,
	}
}
