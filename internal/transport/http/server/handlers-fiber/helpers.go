package handlers_fiber

import (
	"errors"
	"net/http"

	"decision-log-workflow/internal/api"
	"decision-log-workflow/internal/entities"

	"github.com/gofiber/fiber/v2"
)

func writeError(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	code := api.INTERNAL
	msg := err.Error()

	switch {
	case errors.Is(err, entities.ErrInvalidArgument):
		status = http.StatusBadRequest
		code = api.INVALIDARGUMENT
	case errors.Is(err, entities.ErrInvalidState):
		status = http.StatusConflict
		code = api.INVALIDSTATE
	case errors.Is(err, entities.ErrIssueNotFound),
		errors.Is(err, entities.ErrBranchNotFound),
		errors.Is(err, entities.ErrCommitNotFound),
		errors.Is(err, entities.ErrPRNotFound),
		errors.Is(err, entities.ErrDecisionNotFound):
		status = http.StatusNotFound
		code = api.NOTFOUND
	}

	return c.Status(status).JSON(errorResponse(code, msg))
}

func errorResponse(code api.ErrorResponseErrorCode, msg string) api.ErrorResponse {
	return api.ErrorResponse{Error: struct {
		Code    api.ErrorResponseErrorCode `json:"code"`
		Message string                     `json:"message"`
	}{Code: code, Message: msg}}
}
