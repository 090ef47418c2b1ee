package handlers_fiber

import (
	"net/http"

	"decision-log-workflow/internal/api"
	"decision-log-workflow/internal/mapper"

	"github.com/gofiber/fiber/v2"
)

// GetDecisionList returns all decision records.
func (h *Handler) GetDecisionList(c *fiber.Ctx) error {
	records, err := h.uc.DecisionRecords(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Records []api.DecisionRecord `json:"records"`
	}{Records: mapper.ToAPIDecisionList(records)})
}

// GetDecision returns one decision record.
func (h *Handler) GetDecision(c *fiber.Ctx) error {
	record, err := h.uc.DecisionRecord(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Record api.DecisionRecord `json:"record"`
	}{Record: mapper.ToAPIDecision(*record)})
}

// GetDecisionMarkdown returns the record rendered for human-readable export.
func (h *Handler) GetDecisionMarkdown(c *fiber.Ctx) error {
	record, err := h.uc.DecisionRecord(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(http.StatusOK).SendString(record.Markdown())
}
