package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jashan-dhillon/mira-matching/internal/dto"
	"github.com/jashan-dhillon/mira-matching/internal/matching"
	"github.com/jashan-dhillon/mira-matching/internal/middleware"
	"github.com/jashan-dhillon/mira-matching/internal/model"
	"github.com/jashan-dhillon/mira-matching/internal/usecase"
	"github.com/jashan-dhillon/mira-matching/internal/util"
)

type MatchingHandler struct {
	uc *usecase.MatchingUsecase
}

func NewMatchingHandler(uc *usecase.MatchingUsecase) *MatchingHandler {
	return &MatchingHandler{uc: uc}
}

func (h *MatchingHandler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/matching")
	api.Post("/calculate/:itemId", middleware.RateLimiter(5, 1*time.Minute), h.Calculate)
	api.Get("/runs/:id", h.Run)
	api.Post("/generate-panel/:itemId", middleware.RateLimiter(5, 1*time.Minute), h.GeneratePanel)
	api.Get("/score/:itemId/:expertId", h.ScoreBreakdown)
	api.Post("/update-embeddings", middleware.RateLimiter(1, 1*time.Minute), h.UpdateEmbeddings)
}

// Calculate starts a batch scoring run for all experts against one item.
func (h *MatchingHandler) Calculate(c *fiber.Ctx) error {
	var req dto.CalculateRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	runID, err := h.uc.CalculateScores(c.Params("itemId"), req.Weights, req.UseSemantic)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to start scoring run",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusAccepted,
		Message: "Scoring run started",
		Data:    fiber.Map{"run_id": runID, "status": "processing"},
	})
}

// Run returns the state and results of a scoring run.
func (h *MatchingHandler) Run(c *fiber.Ctx) error {
	run, err := h.uc.GetRun(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "run not found",
		}, err)
	}

	data := dto.MatchRunDTO{
		ID:          run.ID,
		ItemID:      run.ItemID,
		Status:      run.Status,
		UseSemantic: run.UseSemantic,
		Results:     run.Results,
		Error:       run.Error,
		CreatedAt:   run.CreatedAt,
		UpdatedAt:   run.UpdatedAt,
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get scoring run",
		Data:    data,
	})
}

// GeneratePanel composes and persists a panel for one item.
func (h *MatchingHandler) GeneratePanel(c *fiber.Ctx) error {
	req := dto.GeneratePanelRequest{PanelSize: 5}
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}

	panel, err := h.uc.GeneratePanel(c.Params("itemId"), req.PanelSize, req.Weights, req.UseSemantic)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to generate panel",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success generate panel",
		Data:    panel,
	})
}

// ScoreBreakdown returns the detailed score for one expert-item pair.
func (h *MatchingHandler) ScoreBreakdown(c *fiber.Ctx) error {
	useSemantic := c.QueryBool("use_semantic", true)

	item, result, interpretations, err := h.uc.ScoreBreakdown(c.Params("itemId"), c.Params("expertId"), useSemantic)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to compute score breakdown",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get score breakdown",
		Data:    newScoreBreakdownDTO(item, result, interpretations),
	})
}

func newScoreBreakdownDTO(item *model.Item, result *matching.ScoreResult, interpretations map[string]string) dto.ScoreBreakdownDTO {
	return dto.ScoreBreakdownDTO{
		ItemID:          item.ID.String(),
		ItemNo:          item.ItemNo,
		Result:          *result,
		Interpretations: interpretations,
	}
}

// UpdateEmbeddings refreshes embeddings for every stored profile.
func (h *MatchingHandler) UpdateEmbeddings(c *fiber.Ctx) error {
	count, err := h.uc.UpdateEmbeddings(c.Context())
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to update embeddings",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success update embeddings",
		Data:    fiber.Map{"updated": count},
	})
}
