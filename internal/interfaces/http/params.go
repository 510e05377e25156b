package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/retail-ledger/internal/application/dto"
	"github.com/jhoicas/retail-ledger/internal/domain"
)

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id inválido", domain.ErrInvalidInput)
	}
	return id, nil
}

// queryID lee un id opcional de la query string; vacío = nil.
func queryID(c *fiber.Ctx, key string) (*int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: %s inválido", domain.ErrInvalidInput, key)
	}
	return &id, nil
}

// branchScope usa ?branch_id= y, si no viene, la sucursal del token.
func branchScope(c *fiber.Ctx) (*int64, error) {
	id, err := queryID(c, "branch_id")
	if err != nil || id != nil {
		return id, err
	}
	return GetBranchID(c), nil
}

func pageParams(c *fiber.Ctx) (limit, offset int) {
	p := dto.Page{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")}.Normalize()
	return p.Limit, p.Offset
}
