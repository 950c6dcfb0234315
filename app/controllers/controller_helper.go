package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gustavolopes/lojify/internal/pkg/apperr"
)

const defaultPageSize = 50
const maxPageSize = 200

// errorJSON maps a kinded error to the HTTP status and JSON body used by all
// API responses.
func errorJSON(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "not_found",
			"message": "registro não encontrado",
		})
	}
	status := apperr.HTTPStatus(err)
	body := fiber.Map{"error": errorCode(status), "message": err.Error()}
	return c.Status(status).JSON(body)
}

func errorCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "not_found"
	case fiber.StatusBadRequest:
		return "validation_error"
	case fiber.StatusBadGateway:
		return "provider_error"
	case fiber.StatusUnauthorized:
		return "unauthorized"
	case fiber.StatusForbidden:
		return "forbidden"
	}
	return "internal_server_error"
}

// pagination reads ?page and ?per_page, both 1-based and clamped.
func pagination(c *fiber.Ctx) (offset, limit int) {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.Query("per_page", strconv.Itoa(defaultPageSize)))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return (page - 1) * limit, limit
}

// parseIDParam reads a positive numeric path parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.Validation("identificador inválido: " + raw)
	}
	return uint(id), nil
}
