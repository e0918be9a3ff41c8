// Package response provides standardized HTTP response builders for the booking API.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// BadRequest writes a 400 Bad Request response with the given error message.
func BadRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, &ErrorDetail{
		Code:    CodeInvalidRequest,
		Message: message,
	})
}

// InvalidRequestBody writes a 400 Bad Request response for malformed request bodies.
func InvalidRequestBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, &ErrorDetail{
		Code:    CodeInvalidRequest,
		Message: MsgInvalidRequestBody,
	})
}

// ValidationError writes a 400 Bad Request response with validation error details.
func ValidationError(c echo.Context, details map[string]string) error {
	return c.JSON(http.StatusBadRequest, &ErrorDetail{
		Code:    CodeValidationError,
		Message: MsgValidationFailed,
		Details: details,
	})
}

// ValidationErrorWithMessage writes a 400 Bad Request response with a custom message.
func ValidationErrorWithMessage(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, &ErrorDetail{
		Code:    CodeValidationError,
		Message: message,
	})
}

// NotFound writes a 404 Not Found response with the given message.
func NotFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, &ErrorDetail{
		Code:    CodeNotFound,
		Message: message,
	})
}

// SessionNotFound writes a 404 Not Found response for unknown or expired sessions.
func SessionNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, &ErrorDetail{
		Code:    CodeNotFound,
		Message: MsgSessionNotFound,
	})
}

// Conflict writes a 409 Conflict response with the given message.
// Used for flow violations: stale offer references, out-of-order checkout
// steps, and pricing mismatches.
func Conflict(c echo.Context, message string) error {
	return c.JSON(http.StatusConflict, &ErrorDetail{
		Code:    CodeConflict,
		Message: message,
	})
}

// PaymentDeclined writes a 402 Payment Required response.
func PaymentDeclined(c echo.Context, message string) error {
	return c.JSON(http.StatusPaymentRequired, &ErrorDetail{
		Code:    CodePaymentDeclined,
		Message: message,
	})
}

// PaymentUpstreamError writes a 502 Bad Gateway response for payment
// processor transport failures.
func PaymentUpstreamError(c echo.Context, message string) error {
	return c.JSON(http.StatusBadGateway, &ErrorDetail{
		Code:    CodePaymentUpstream,
		Message: message,
	})
}

// GatewayTimeout writes a 504 Gateway Timeout response.
func GatewayTimeout(c echo.Context) error {
	return c.JSON(http.StatusGatewayTimeout, &ErrorDetail{
		Code:    CodeTimeout,
		Message: MsgTimeout,
	})
}

// RequestCancelled writes a 504 Gateway Timeout response for cancelled requests.
func RequestCancelled(c echo.Context) error {
	return c.JSON(http.StatusGatewayTimeout, &ErrorDetail{
		Code:    CodeTimeout,
		Message: MsgRequestCancelled,
	})
}

// InternalServerError writes a 500 Internal Server Error response.
func InternalServerError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, &ErrorDetail{
		Code:    CodeInternalError,
		Message: MsgInternalError,
	})
}

// InternalServerErrorWithMessage writes a 500 Internal Server Error response with a custom message.
func InternalServerErrorWithMessage(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, &ErrorDetail{
		Code:    CodeInternalError,
		Message: message,
	})
}
