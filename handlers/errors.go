package handlers

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/SravanthiSinha/SmartClip/internal/apperr"
	"github.com/SravanthiSinha/SmartClip/utils"
)

// statusFor maps the service error kinds to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperr.ErrPrecondition):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the error envelope for err and logs server-side failures.
func (h *ApplicationHandler) respondError(c *fiber.Ctx, err error, op string) error {
	code := statusFor(err)
	if code >= fiber.StatusInternalServerError {
		h.Logger.WithError(err).WithField("op", op).Error("Request failed")
	}
	return utils.RespondWithError(c, code, capitalize(err.Error()))
}

// parseID reads a uuid route parameter.
func parseID(c *fiber.Ctx, param, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		return uuid.Nil, apperr.Precondition("Invalid " + entity + " id")
	}
	return id, nil
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// errorHandler renders errors that escape a handler, including fiber's own
// 404 and 405, in the JSON envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
		if code == fiber.StatusNotFound {
			msg = "Endpoint not found"
		}
	}
	return utils.RespondWithError(c, code, strings.TrimSpace(msg))
}
