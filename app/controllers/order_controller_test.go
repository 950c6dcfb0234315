package controllers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gustavolopes/lojify/app/models"
	"github.com/gustavolopes/lojify/app/repository"
)

type fakeOrderRepo struct {
	orders map[string]*models.Order
}

func (r *fakeOrderRepo) Create(order *models.Order) error { return nil }

func (r *fakeOrderRepo) GetByID(id uint) (*models.Order, error) {
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) GetByUUID(uuid string) (*models.Order, error) {
	if o, ok := r.orders[uuid]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeOrderRepo) ListByStore(storeID uint, offset, limit int) ([]models.Order, error) {
	return nil, nil
}

func (r *fakeOrderRepo) ListByClient(clientID uint, offset, limit int) ([]models.Order, error) {
	return nil, nil
}

func (r *fakeOrderRepo) UpdateStatus(id uint, status string) error { return nil }

func newOrderTrackApp(orders map[string]*models.Order) *fiber.App {
	repository.SetGlobalRepositories(&repository.Repositories{
		Order: &fakeOrderRepo{orders: orders},
	})
	app := fiber.New()
	app.Get("/api/orders/track/:uuid", HandleOrderTrack)
	return app
}

func TestOrderTrackByUUID(t *testing.T) {
	placedAt := time.Date(2026, 8, 10, 14, 30, 0, 0, time.UTC)
	app := newOrderTrackApp(map[string]*models.Order{
		"b7e1d0a2-1111-2222-3333-444455556666": {
			ID:         9,
			UUID:       "b7e1d0a2-1111-2222-3333-444455556666",
			StoreID:    1,
			ClientID:   4,
			TotalCents: 4500,
			Status:     models.ORDER_STATUS_ENTREGA,
			CreatedAt:  placedAt,
		},
	})

	req := httptest.NewRequest("GET", "/api/orders/track/b7e1d0a2-1111-2222-3333-444455556666", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))

	assert.Equal(t, "b7e1d0a2-1111-2222-3333-444455556666", body["uuid"])
	assert.Equal(t, models.ORDER_STATUS_ENTREGA, body["status"])
	assert.Equal(t, float64(4500), body["total_cents"])
	// Internal identifiers stay hidden on the public endpoint.
	assert.NotContains(t, body, "id")
	assert.NotContains(t, body, "client_id")
	assert.NotContains(t, body, "store_id")
}

func TestOrderTrackUnknownUUIDReturns404(t *testing.T) {
	app := newOrderTrackApp(map[string]*models.Order{})

	req := httptest.NewRequest("GET", "/api/orders/track/nao-existe", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
