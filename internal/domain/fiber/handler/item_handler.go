package handler

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jashan-dhillon/mira-matching/internal/model"
	"github.com/jashan-dhillon/mira-matching/internal/usecase"
	"github.com/jashan-dhillon/mira-matching/internal/util"
)

const maxUploadSize = 10 * 1024 * 1024

type ItemHandler struct {
	uc *usecase.MatchingUsecase
}

func NewItemHandler(uc *usecase.MatchingUsecase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

func (h *ItemHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/api/items/upload", h.Upload)
	app.Get("/api/items", h.Items)
	app.Get("/api/experts", h.Experts)
	app.Post("/api/experts", h.RegisterExpert)
	app.Get("/api/experts/search/:itemId", h.SearchExperts)
	app.Post("/api/candidates", h.RegisterCandidate)
}

// Upload ingests a recruitment advertisement PDF and stores the job openings
// found in it.
func (h *ItemHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("advertisement")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "advertisement file is required",
		}, err)
	}
	if file.Size > maxUploadSize {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "advertisement file is too large (max 10MB)",
		}, nil)
	}
	if strings.ToLower(filepath.Ext(file.Filename)) != ".pdf" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "unsupported advertisement file type",
		}, nil)
	}

	savePath := filepath.Join("./uploads/advertisements/", file.Filename)
	if err := c.SaveFile(file, savePath); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "cannot save advertisement file",
		}, err)
	}

	rows, err := util.ExtractItemsFromPDF(savePath)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to extract items from PDF",
		}, err)
	}

	items, err := h.uc.ImportItemRows(rows, c.FormValue("organization"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to store extracted items",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: fmt.Sprintf("Imported %d items", len(items)),
		Data:    items,
	})
}

func (h *ItemHandler) Items(c *fiber.Ctx) error {
	items, err := h.uc.ListItems()
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list items",
		}, err)
	}
	page, pagination := paginate(c, items)
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success list items",
		Data:       page,
		Pagination: pagination,
	})
}

// RegisterExpert stores a new evaluator profile. The category must belong to
// the panel composition set.
func (h *ItemHandler) RegisterExpert(c *fiber.Ctx) error {
	var expert model.Expert
	if err := c.BodyParser(&expert); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid expert payload",
		}, err)
	}

	if err := h.uc.RegisterExpert(c.Context(), &expert); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "failed to register expert",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Expert registered",
		Data:    expert,
	})
}

// RegisterCandidate stores a new applicant for an item.
func (h *ItemHandler) RegisterCandidate(c *fiber.Ctx) error {
	var cand model.Candidate
	if err := c.BodyParser(&cand); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid candidate payload",
		}, err)
	}

	if err := h.uc.RegisterCandidate(c.Context(), &cand); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to register candidate",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Candidate registered",
		Data:    cand,
	})
}

// SearchExperts returns the experts nearest to an item's embedding by vector
// distance, without full engine scoring.
func (h *ItemHandler) SearchExperts(c *fiber.Ctx) error {
	experts, err := h.uc.SearchExpertsForItem(c.Params("itemId"), c.QueryInt("top_k", 10))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to search experts",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success search experts",
		Data:    experts,
	})
}

func (h *ItemHandler) Experts(c *fiber.Ctx) error {
	experts, err := h.uc.ListExperts()
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list experts",
		}, err)
	}
	page, pagination := paginate(c, experts)
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success list experts",
		Data:       page,
		Pagination: pagination,
	})
}
