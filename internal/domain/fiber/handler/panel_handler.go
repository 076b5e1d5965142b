package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jashan-dhillon/mira-matching/internal/dto"
	"github.com/jashan-dhillon/mira-matching/internal/usecase"
	"github.com/jashan-dhillon/mira-matching/internal/util"
)

type PanelHandler struct {
	uc *usecase.MatchingUsecase
}

func NewPanelHandler(uc *usecase.MatchingUsecase) *PanelHandler {
	return &PanelHandler{uc: uc}
}

func (h *PanelHandler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/panels")
	api.Get("/item/:itemId", h.PanelsByItem)
	api.Get("/:id", h.Panel)
	api.Post("/:id/validate", h.Validate)
	api.Get("/:id/replacements/:expertId", h.Replacements)
}

func (h *PanelHandler) Panel(c *fiber.Ctx) error {
	panel, err := h.uc.GetPanel(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "panel not found",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get panel",
		Data:    panel,
	})
}

func (h *PanelHandler) PanelsByItem(c *fiber.Ctx) error {
	panels, err := h.uc.GetPanelsByItem(c.Params("itemId"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list panels",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success list panels",
		Data:    panels,
	})
}

// Validate reports per-category shortfall or excess against a target
// composition without changing the stored panel.
func (h *PanelHandler) Validate(c *fiber.Ctx) error {
	var req dto.ValidatePanelRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	result, err := h.uc.ValidatePanel(c.Params("id"), req.Requirements)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to validate panel",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success validate panel",
		Data:    result,
	})
}

// Replacements suggests alternatives for one panel member from the ranking
// stored with the panel.
func (h *PanelHandler) Replacements(c *fiber.Ctx) error {
	suggestions, err := h.uc.SuggestReplacements(c.Params("id"), c.Params("expertId"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to suggest replacements",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success suggest replacements",
		Data:    suggestions,
	})
}
