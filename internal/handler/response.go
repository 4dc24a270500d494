// Package handler maps HTTP requests onto the services and renders every
// response in the same envelope:
//
//	{"success": true, "data": ...}
//	{"success": false, "error": {"message": "...", "errors": {"field": "..."}}}
//
// Handlers return errors instead of writing failures themselves; the
// ErrorHandler installed on echo translates them.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/repair-shop/internal/apperr"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody carries a failure message and optional per-field messages.
type ErrorBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// respond writes a success envelope.  Nil slices are rendered as [] so
// list endpoints never return null.
func respond(c echo.Context, status int, data interface{}) error {
	if v := reflect.ValueOf(data); v.Kind() == reflect.Slice && v.IsNil() {
		data = reflect.MakeSlice(v.Type(), 0, 0).Interface()
	}
	return c.JSON(status, Envelope{Success: true, Data: data})
}

// ErrorHandler renders errors returned by handlers and middleware.
// Classified errors keep their status, echo errors keep their code and
// anything else becomes a 500 carrying the underlying message.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := translate(err)
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err))
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, Envelope{Success: false, Error: body})
		}
		if err != nil {
			log.Warn("write error response", zap.Error(err))
		}
	}
}

func translate(err error) (int, *ErrorBody) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return apperr.Status(ae), &ErrorBody{Message: ae.Message, Errors: ae.Fields}
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		} else if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
		return he.Code, &ErrorBody{Message: msg}
	}
	return http.StatusInternalServerError, &ErrorBody{Message: err.Error()}
}

// Validator adapts validator/v10 to echo.  Field names in messages use
// the JSON names of the payload.
type Validator struct {
	v *validator.Validate
}

// NewValidator returns a validator that reports fields by their JSON name.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// Validate returns an apperr validation error listing every failed field.
func (cv *Validator) Validate(i interface{}) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return apperr.Validation("Validation failed", fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	}
	return "is invalid"
}

// bind decodes the request body into dst and validates it.
func bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return apperr.Validation("Invalid request body", nil)
		}
		return err
	}
	return c.Validate(dst)
}
