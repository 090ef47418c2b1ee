package handlers_fiber

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"decision-log-workflow/internal/api"
	"decision-log-workflow/internal/entities"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   api.ErrorResponseErrorCode
	}{
		{"invalid_argument", fmt.Errorf("%w: title is required", entities.ErrInvalidArgument), http.StatusBadRequest, api.INVALIDARGUMENT},
		{"invalid_state", fmt.Errorf("%w: issue is closed", entities.ErrInvalidState), http.StatusConflict, api.INVALIDSTATE},
		{"issue_not_found", entities.ErrIssueNotFound, http.StatusNotFound, api.NOTFOUND},
		{"branch_not_found", entities.ErrBranchNotFound, http.StatusNotFound, api.NOTFOUND},
		{"commit_not_found", entities.ErrCommitNotFound, http.StatusNotFound, api.NOTFOUND},
		{"pr_not_found", entities.ErrPRNotFound, http.StatusNotFound, api.NOTFOUND},
		{"decision_not_found", entities.ErrDecisionNotFound, http.StatusNotFound, api.NOTFOUND},
		{"internal", fmt.Errorf("boom"), http.StatusInternalServerError, api.INTERNAL},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return writeError(c, tt.err)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, tt.status, resp.StatusCode)

			var body api.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.Equal(t, tt.code, body.Error.Code)
			require.NotEmpty(t, body.Error.Message)
		})
	}
}
