package handlers_fiber

import (
	"net/http"

	"decision-log-workflow/internal/api"
	"decision-log-workflow/internal/entities"
	"decision-log-workflow/internal/mapper"

	"github.com/gofiber/fiber/v2"
)

// PostBranchCreate handles branch creation under an issue.
func (h *Handler) PostBranchCreate(c *fiber.Ctx) error {
	var body api.PostBranchCreateJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse(api.INVALIDARGUMENT, "invalid body"))
	}
	branch, err := h.uc.CreateBranch(c.Context(), body.IssueId, body.Name, body.Description, body.CreatorId)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(struct {
		Branch api.Branch `json:"branch"`
	}{Branch: mapper.ToAPIBranch(*branch)})
}

// GetIssueBranches returns the issue's branches in discussion order.
func (h *Handler) GetIssueBranches(c *fiber.Ctx) error {
	branches, err := h.uc.Branches(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Branches []api.Branch `json:"branches"`
	}{Branches: mapper.ToAPIBranchList(branches)})
}

// PostBranchCommit appends a commit to a branch.
func (h *Handler) PostBranchCommit(c *fiber.Ctx) error {
	var body api.PostBranchCommitJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse(api.INVALIDARGUMENT, "invalid body"))
	}
	branch, err := h.uc.AppendCommit(c.Context(), c.Params("id"), entities.Commit{
		Type:      entities.CommitType(body.Type),
		AuthorID:  body.AuthorId,
		Message:   body.Message,
		RepliesTo: body.RepliesTo,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(struct {
		Branch api.Branch `json:"branch"`
	}{Branch: mapper.ToAPIBranch(*branch)})
}
