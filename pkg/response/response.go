package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "foodstore/pkg/errors"
	"foodstore/pkg/logger"
)

// SeqHeader carries the caller's request sequence number on list calls.
const SeqHeader = "X-Request-Seq"

// MessageBody is the 4xx error shape.
type MessageBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// FailureBody is the 5xx error shape. Details never carry the raw cause.
type FailureBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

type ProductPageBody struct {
	Products    interface{} `json:"products"`
	CurrentPage int         `json:"currentPage"`
	TotalItems  int         `json:"totalItems"`
	TotalPages  int         `json:"totalPages"`
	Seq         string      `json:"seq,omitempty"`
}

func Success(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func Created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

func Message(c echo.Context, status int, message string) error {
	return c.JSON(status, MessageBody{Message: message})
}

// ProductPage writes a product listing, echoing seq when the caller sent one.
func ProductPage(c echo.Context, products interface{}, currentPage, totalItems, totalPages int, seq string) error {
	if seq != "" {
		c.Response().Header().Set(SeqHeader, seq)
	}
	return c.JSON(http.StatusOK, ProductPageBody{
		Products:    products,
		CurrentPage: currentPage,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		Seq:         seq,
	})
}

// Error converts any error into a structured JSON body.
func Error(c echo.Context, err error) error {
	if appErr, ok := apperrors.As(err); ok {
		if appErr.Status >= http.StatusInternalServerError {
			return failure(c, appErr.Status, appErr.Message, appErr.Code, err)
		}
		return c.JSON(appErr.Status, MessageBody{
			Message: appErr.Message,
			Code:    appErr.Code,
		})
	}

	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		return c.JSON(http.StatusBadRequest, MessageBody{
			Message: validationMessage(validationErr),
			Code:    apperrors.CodeValidation,
		})
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Code >= http.StatusInternalServerError {
			return failure(c, httpErr.Code, http.StatusText(httpErr.Code), "INTERNAL_ERROR", err)
		}
		return c.JSON(httpErr.Code, MessageBody{Message: httpMessage(httpErr)})
	}

	return failure(c, http.StatusInternalServerError, "An unexpected error occurred", "INTERNAL_ERROR", err)
}

func failure(c echo.Context, status int, message, details string, cause error) error {
	logger.WithFields(map[string]interface{}{
		"method": c.Request().Method,
		"path":   c.Path(),
		"status": status,
	}).WithError(cause).Error(message)

	return c.JSON(status, FailureBody{
		Error:   message,
		Details: details,
	})
}

// HTTPErrorHandler routes errors returned by handlers and middleware
// through Error.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if writeErr := Error(c, err); writeErr != nil {
		logger.Error("Failed to write error response: %v", writeErr)
	}
}

func httpMessage(e *echo.HTTPError) string {
	switch m := e.Message.(type) {
	case string:
		return m
	case error:
		return m.Error()
	case nil:
		return http.StatusText(e.Code)
	default:
		return fmt.Sprint(m)
	}
}

func validationMessage(errs validator.ValidationErrors) string {
	for _, err := range errs {
		field := lowerFirst(err.Field())
		param := err.Param()

		switch err.Tag() {
		case "required":
			return field + " is required"
		case "min", "gte":
			return field + " must be at least " + param
		case "max", "lte":
			return field + " must be at most " + param
		case "oneof":
			return field + " must be one of: " + param
		case "email":
			return field + " must be a valid email address"
		default:
			return field + " is invalid"
		}
	}
	return "Invalid input data"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
