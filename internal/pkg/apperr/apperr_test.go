package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("loja nao encontrada")))
	assert.Equal(t, KindValidation, KindOf(Validation("plano invalido")))
	assert.Equal(t, KindProvider, KindOf(Provider("stripe", errors.New("timeout"))))
	assert.Equal(t, KindPersistence, KindOf(Persistence("db", errors.New("gone"))))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("check subscription: %w", Provider("stripe", errors.New("boom")))
	assert.True(t, IsKind(err, KindProvider))
	assert.Equal(t, fiber.StatusBadGateway, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, fiber.StatusNotFound, HTTPStatus(NotFound("x")))
	assert.Equal(t, fiber.StatusBadRequest, HTTPStatus(Validation("x")))
	assert.Equal(t, fiber.StatusInternalServerError, HTTPStatus(errors.New("x")))
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := Provider("listing customers failed", errors.New("connection reset"))
	assert.Contains(t, err.Error(), "listing customers failed")
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, "connection reset", errors.Unwrap(err).Error())
}
