package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jashan-dhillon/mira-matching/internal/response"
)

const defaultPageSize = 25

// paginate slices a full result set according to page/page_size query
// parameters and builds the pagination envelope.
func paginate[T any](c *fiber.Ctx, all []T) ([]T, *response.Pagination) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	size := c.QueryInt("page_size", defaultPageSize)
	if size < 1 {
		size = defaultPageSize
	}

	p := response.NewPagination(page, size, len(all))
	return all[p.From:p.To], p
}
