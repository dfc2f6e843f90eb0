package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/skyline/air-reservation/internal/services"
)

// errorCodes maps service error kinds to a status and a machine readable code
var errorCodes = []struct {
	kind   error
	status int
	code   string
}{
	{services.ErrValidation, http.StatusBadRequest, "validation_error"},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{services.ErrUnauthenticated, http.StatusUnauthorized, "unauthorized"},
	{services.ErrForbidden, http.StatusForbidden, "forbidden"},
	{services.ErrNotFound, http.StatusNotFound, "not_found"},
	{services.ErrConflict, http.StatusConflict, "conflict"},
}

// respondError writes a service error. Unknown errors are logged and hidden
// behind a generic 500.
func respondError(c *gin.Context, logger *logrus.Logger, err error, fallbackRedirect string) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		redirect := svcErr.Redirect
		if redirect == "" {
			redirect = fallbackRedirect
		}
		for _, ec := range errorCodes {
			if errors.Is(svcErr, ec.kind) {
				c.JSON(ec.status, gin.H{
					"error":    ec.code,
					"message":  svcErr.Message,
					"redirect": redirect,
				})
				return
			}
		}
	}

	logger.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}).WithError(err).Error("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":    "internal_error",
		"message":  "Something went wrong.",
		"redirect": fallbackRedirect,
	})
}

// respondMessage writes a success message with the page to show next
func respondMessage(c *gin.Context, status int, message, redirect string, data gin.H) {
	body := gin.H{"message": message, "redirect": redirect}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(status, body)
}

// requiredMessager is implemented by requests that word their own
// missing-field message
type requiredMessager interface {
	RequiredMessage() string
}

// bind reads a JSON or form body into req and applies its binding tags
func bind(c *gin.Context, req interface{}, redirect string) bool {
	err := c.ShouldBind(req)
	if err == nil {
		return true
	}

	code, message := "invalid_request", "Invalid request format."
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		code, message = "validation_error", bindingMessage(req, fieldErrs)
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error":    code,
		"message":  message,
		"redirect": redirect,
	})
	return false
}

// bindingMessage reports missing fields before malformed ones
func bindingMessage(req interface{}, fieldErrs validator.ValidationErrors) string {
	for _, fe := range fieldErrs {
		if fe.Tag() != "required" {
			continue
		}
		if m, ok := req.(requiredMessager); ok {
			return m.RequiredMessage()
		}
		return "Please fill in all required fields."
	}
	for _, fe := range fieldErrs {
		if fe.Tag() == "email" {
			return "Please enter a valid email address."
		}
	}
	return "Invalid request format."
}

// flightParams reads the :airline and :flight_num path parameters
func flightParams(c *gin.Context, redirect string) (string, int, bool) {
	flightNum, err := strconv.Atoi(c.Param("flight_num"))
	if err != nil || flightNum <= 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error":    "not_found",
			"message":  "Flight not found.",
			"redirect": redirect,
		})
		return "", 0, false
	}
	return c.Param("airline"), flightNum, true
}
