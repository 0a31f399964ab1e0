package rest

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"stocktalk-service/internal/domain/entities"
)

const serverErrorMessage = "Server error"

type messageResponse struct {
	Message string `json:"message"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// errorMessages overrides the response text per error class for one route.
type errorMessages struct {
	notFound     string
	unauthorized string
	conflict     string
}

func respondError(c echo.Context, err error, msgs errorMessages) error {
	status, message := classify(err, msgs)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Msg("request failed")
	}
	return c.JSON(status, messageResponse{Message: message})
}

func classify(err error, msgs errorMessages) (int, string) {
	switch {
	case errors.Is(err, entities.ErrValidation):
		return http.StatusBadRequest, validationMessage(err)
	case errors.Is(err, entities.ErrConflict):
		return http.StatusBadRequest, orDefault(msgs.conflict, "Resource already exists")
	case errors.Is(err, entities.ErrAlreadyLiked):
		return http.StatusBadRequest, "Post already liked"
	case errors.Is(err, entities.ErrNotLiked):
		return http.StatusBadRequest, "Post not liked yet"
	case errors.Is(err, entities.ErrUnauthorized):
		return http.StatusUnauthorized, orDefault(msgs.unauthorized, "Not authorized")
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound, orDefault(msgs.notFound, "Not found")
	case errors.Is(err, entities.ErrTooManyRequests):
		return http.StatusTooManyRequests, "Too many attempts, please try again later"
	default:
		return http.StatusInternalServerError, serverErrorMessage
	}
}

// validationMessage strips the sentinel prefix: "validation failed: title is required" -> "title is required".
func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, entities.ErrValidation.Error()+": "); i >= 0 {
		return msg[i+len(entities.ErrValidation.Error())+2:]
	}
	return msg
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
