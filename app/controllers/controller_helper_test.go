package controllers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gustavolopes/lojify/internal/pkg/apperr"
)

func TestPagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      string
		wantOffset int
		wantLimit  int
	}{
		{name: "defaults", query: "", wantOffset: 0, wantLimit: defaultPageSize},
		{name: "second page", query: "?page=2&per_page=20", wantOffset: 20, wantLimit: 20},
		{name: "negative page clamps", query: "?page=-3", wantOffset: 0, wantLimit: defaultPageSize},
		{name: "oversized per_page clamps", query: "?per_page=9999", wantOffset: 0, wantLimit: maxPageSize},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := fiber.New()
			var offset, limit int
			app.Get("/list", func(c *fiber.Ctx) error {
				offset, limit = pagination(c)
				return c.SendStatus(fiber.StatusOK)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/list"+tt.query, nil))
			require.NoError(t, err)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestParseIDParam(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	var gotID uint
	var gotErr error
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		gotID, gotErr = parseIDParam(c, "id")
		return c.SendStatus(fiber.StatusOK)
	})

	_, err := app.Test(httptest.NewRequest("GET", "/items/42", nil))
	require.NoError(t, err)
	assert.Equal(t, uint(42), gotID)
	assert.NoError(t, gotErr)

	_, err = app.Test(httptest.NewRequest("GET", "/items/abc", nil))
	require.NoError(t, err)
	require.Error(t, gotErr)
	assert.True(t, apperr.IsKind(gotErr, apperr.KindValidation))

	_, err = app.Test(httptest.NewRequest("GET", "/items/0", nil))
	require.NoError(t, err)
	require.Error(t, gotErr)
}

func TestErrorJSONStatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not found", err: apperr.NotFound("loja não encontrada"), wantStatus: fiber.StatusNotFound},
		{name: "validation", err: apperr.Validation("plano desconhecido"), wantStatus: fiber.StatusBadRequest},
		{name: "provider", err: apperr.Provider("stripe indisponível", nil), wantStatus: fiber.StatusBadGateway},
		{name: "persistence", err: apperr.Persistence("falha no banco", nil), wantStatus: fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			app := fiber.New()
			app.Get("/fail", func(c *fiber.Ctx) error {
				return errorJSON(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/fail", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
