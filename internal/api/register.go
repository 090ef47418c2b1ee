package api

import "github.com/gofiber/fiber/v2"

// ServerInterface enumerates the handler methods behind the REST surface.
type ServerInterface interface {
	PostIssueCreate(c *fiber.Ctx) error
	GetIssueList(c *fiber.Ctx) error
	GetIssue(c *fiber.Ctx) error
	PutIssueStatus(c *fiber.Ctx) error
	GetIssueBranches(c *fiber.Ctx) error
	PostBranchCreate(c *fiber.Ctx) error
	PostBranchCommit(c *fiber.Ctx) error
	PostPullRequestCreate(c *fiber.Ctx) error
	GetPullRequestList(c *fiber.Ctx) error
	GetPullRequest(c *fiber.Ctx) error
	PostPullRequestReview(c *fiber.Ctx) error
	DeletePullRequestReview(c *fiber.Ctx) error
	PostPullRequestMerge(c *fiber.Ctx) error
	PostPullRequestReject(c *fiber.Ctx) error
	GetDecisionList(c *fiber.Ctx) error
	GetDecision(c *fiber.Ctx) error
	GetDecisionMarkdown(c *fiber.Ctx) error
}

// RegisterHandlers wires the REST routes to the handler implementation.
func RegisterHandlers(app *fiber.App, h ServerInterface) {
	app.Post("/api/issues", h.PostIssueCreate)
	app.Get("/api/issues", h.GetIssueList)
	app.Get("/api/issues/:id", h.GetIssue)
	app.Put("/api/issues/:id/status", h.PutIssueStatus)
	app.Get("/api/issues/:id/branches", h.GetIssueBranches)
	app.Post("/api/branches", h.PostBranchCreate)
	app.Post("/api/branches/:id/commits", h.PostBranchCommit)
	app.Post("/api/pull-requests", h.PostPullRequestCreate)
	app.Get("/api/pull-requests", h.GetPullRequestList)
	app.Get("/api/pull-requests/:id", h.GetPullRequest)
	app.Post("/api/pull-requests/:id/reviews", h.PostPullRequestReview)
	app.Delete("/api/pull-requests/:id/reviews/:reviewId", h.DeletePullRequestReview)
	app.Post("/api/pull-requests/:id/merge", h.PostPullRequestMerge)
	app.Post("/api/pull-requests/:id/reject", h.PostPullRequestReject)
	app.Get("/api/decisions", h.GetDecisionList)
	app.Get("/api/decisions/:id", h.GetDecision)
	app.Get("/api/decisions/:id/markdown", h.GetDecisionMarkdown)
}
