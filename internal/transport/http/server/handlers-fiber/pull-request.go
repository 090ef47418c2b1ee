package handlers_fiber

import (
	"net/http"

	"decision-log-workflow/internal/api"
	"decision-log-workflow/internal/entities"
	"decision-log-workflow/internal/mapper"

	"github.com/gofiber/fiber/v2"
)

// PostPullRequestCreate handles single- or multi-branch PR creation.
func (h *Handler) PostPullRequestCreate(c *fiber.Ctx) error {
	var body api.PostPullRequestCreateJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse(api.INVALIDARGUMENT, "invalid body"))
	}
	pr, err := h.uc.CreatePullRequest(c.Context(), entities.PullRequest{
		IssueID:     body.IssueId,
		Title:       body.Title,
		Description: body.Description,
		AuthorID:    body.AuthorId,
		BranchIDs:   body.BranchIds,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(struct {
		PR api.PullRequest `json:"pr"`
	}{PR: mapper.ToAPIPull(*pr)})
}

// GetPullRequestList returns all PRs.
func (h *Handler) GetPullRequestList(c *fiber.Ctx) error {
	prs, err := h.uc.PullRequests(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		PRs []api.PullRequest `json:"prs"`
	}{PRs: mapper.ToAPIPullList(prs)})
}

// GetPullRequest returns one PR with its reviews.
func (h *Handler) GetPullRequest(c *fiber.Ctx) error {
	pr, err := h.uc.PullRequest(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		PR api.PullRequest `json:"pr"`
	}{PR: mapper.ToAPIPull(*pr)})
}

// PostPullRequestReview appends a review to an open PR.
func (h *Handler) PostPullRequestReview(c *fiber.Ctx) error {
	var body api.PostPullRequestReviewJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse(api.INVALIDARGUMENT, "invalid body"))
	}
	pr, err := h.uc.AddReview(c.Context(), c.Params("id"), entities.Review{
		ReviewerID: body.ReviewerId,
		Comment:    body.Comment,
		Category:   entities.ReviewCategory(body.Category),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(struct {
		PR api.PullRequest `json:"pr"`
	}{PR: mapper.ToAPIPull(*pr)})
}

// DeletePullRequestReview removes a review for correction, idempotently.
func (h *Handler) DeletePullRequestReview(c *fiber.Ctx) error {
	pr, err := h.uc.DeleteReview(c.Context(), c.Params("id"), c.Params("reviewId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		PR api.PullRequest `json:"pr"`
	}{PR: mapper.ToAPIPull(*pr)})
}

// PostPullRequestMerge resolves an open PR into a decision record.
func (h *Handler) PostPullRequestMerge(c *fiber.Ctx) error {
	var body api.PostPullRequestMergeJSONRequestBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(errorResponse(api.INVALIDARGUMENT, "invalid body"))
	}
	record, err := h.uc.MergePullRequest(c.Context(), c.Params("id"), entities.MergeInput{
		ActorID:           body.ActorId,
		Decision:          body.DecisionContent,
		Opinion:           body.DecisionOpinion,
		Reasons:           body.DecisionReasons,
		SelectedCommitIDs: body.SelectedCommitIds,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Record api.DecisionRecord `json:"record"`
	}{Record: mapper.ToAPIDecision(*record)})
}

// PostPullRequestReject declines an open PR.
func (h *Handler) PostPullRequestReject(c *fiber.Ctx) error {
	pr, err := h.uc.RejectPullRequest(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		PR api.PullRequest `json:"pr"`
	}{PR: mapper.ToAPIPull(*pr)})
}
