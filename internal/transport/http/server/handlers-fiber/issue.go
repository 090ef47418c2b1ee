package handlers_fiber

import (
	"net/http"

	"decision-log-workflow/internal/api"
	"decision-log-workflow/internal/entities"
	"decision-log-workflow/internal/mapper"

	"github.com/gofiber/fiber/v2"
)

// PostIssueCreate handles issue creation.
func (h *Handler) PostIssueCreate(c *fiber.Ctx) error {
	var body api.PostIssueCreateJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse(api.INVALIDARGUMENT, "invalid body"))
	}
	issue, err := h.uc.CreateIssue(c.Context(), body.Title, body.Description, body.AuthorId)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(struct {
		Issue api.Issue `json:"issue"`
	}{Issue: mapper.ToAPIIssue(*issue)})
}

// GetIssueList returns all issues.
func (h *Handler) GetIssueList(c *fiber.Ctx) error {
	issues, err := h.uc.Issues(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Issues []api.Issue `json:"issues"`
	}{Issues: mapper.ToAPIIssueList(issues)})
}

// GetIssue returns one issue with branches and commits.
func (h *Handler) GetIssue(c *fiber.Ctx) error {
	issue, err := h.uc.Issue(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Issue api.Issue `json:"issue"`
	}{Issue: mapper.ToAPIIssue(*issue)})
}

// PutIssueStatus applies the administrative status override.
func (h *Handler) PutIssueStatus(c *fiber.Ctx) error {
	var body api.PutIssueStatusJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse(api.INVALIDARGUMENT, "invalid body"))
	}
	issue, err := h.uc.UpdateIssueStatus(c.Context(), c.Params("id"), entities.IssueStatus(body.Status))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Issue api.Issue `json:"issue"`
	}{Issue: mapper.ToAPIIssue(*issue)})
}
