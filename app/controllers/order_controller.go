package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gustavolopes/lojify/app/models"
	"github.com/gustavolopes/lojify/app/repository"
	"github.com/gustavolopes/lojify/internal/pkg/apperr"
	"github.com/gustavolopes/lojify/internal/pkg/usercontext"
)

type orderItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type orderRequest struct {
	Items           []orderItemRequest `json:"items"`
	PaymentMethod   string             `json:"payment_method"`
	CashCents       int64              `json:"cash_cents"`
	DeliveryAddress string             `json:"delivery_address"`
	Notes           string             `json:"notes"`
}

// HandleOrderCreate places an order for the logged-in client. Totals are
// computed server side from the current catalog prices; client-sent amounts
// are never trusted.
func HandleOrderCreate(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if userCtx.UserType != models.USER_TYPE_CLIENT {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login de cliente necessário",
		})
	}

	var req orderRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, apperr.Validation("corpo da requisição inválido"))
	}
	if len(req.Items) == 0 {
		return errorJSON(c, apperr.Validation("pedido deve ter ao menos um item"))
	}

	productRepo := repository.GetGlobalFactory().GetProductRepository()
	var items []models.OrderItem
	var total int64
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return errorJSON(c, apperr.Validation("quantidade deve ser maior que zero"))
		}
		product, err := productRepo.GetByID(it.ProductID)
		if err != nil {
			return errorJSON(c, err)
		}
		if product.StoreID != userCtx.StoreID || !product.Available {
			return errorJSON(c, apperr.Validation("produto indisponível"))
		}
		lineTotal := product.PriceCents * int64(it.Quantity)
		items = append(items, models.OrderItem{
			ProductID:  product.ID,
			Quantity:   it.Quantity,
			UnitCents:  product.PriceCents,
			TotalCents: lineTotal,
		})
		total += lineTotal
	}

	order := &models.Order{
		StoreID:         userCtx.StoreID,
		ClientID:        userCtx.UserID,
		TotalCents:      total,
		PaymentMethod:   strings.TrimSpace(req.PaymentMethod),
		DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
		Notes:           strings.TrimSpace(req.Notes),
		Status:          models.ORDER_STATUS_REALIZADO,
		Items:           items,
	}
	if order.PaymentMethod == models.PAYMENT_DINHEIRO {
		if req.CashCents < total {
			return errorJSON(c, apperr.Validation("valor em dinheiro insuficiente para o total do pedido"))
		}
		order.CashCents = req.CashCents
		order.ChangeCents = req.CashCents - total
	}
	if err := order.Validate(); err != nil {
		return errorJSON(c, apperr.Validation("dados do pedido inválidos: "+err.Error()))
	}

	if err := repository.GetGlobalFactory().GetOrderRepository().Create(order); err != nil {
		return errorJSON(c, apperr.Persistence("falha ao registrar pedido", err))
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleOrderList lists orders: store sessions see the store's orders,
// client sessions see their own.
func HandleOrderList(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	offset, limit := pagination(c)
	orderRepo := repository.GetGlobalFactory().GetOrderRepository()

	var (
		orders []models.Order
		err    error
	)
	switch userCtx.UserType {
	case models.USER_TYPE_STORE:
		orders, err = orderRepo.ListByStore(userCtx.StoreID, offset, limit)
	case models.USER_TYPE_CLIENT:
		orders, err = orderRepo.ListByClient(userCtx.UserID, offset, limit)
	default:
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login necessário",
		})
	}
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// HandleOrderGet returns a single order visible to the session.
func HandleOrderGet(c *fiber.Ctx) error {
	order, err := visibleOrderFromParam(c)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(order)
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

// HandleOrderUpdateStatus advances an order through the delivery pipeline.
// Only the store moves orders, and only one step forward at a time.
func HandleOrderUpdateStatus(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if userCtx.UserType != models.USER_TYPE_STORE {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login de loja necessário",
		})
	}

	order, err := visibleOrderFromParam(c)
	if err != nil {
		return errorJSON(c, err)
	}

	var req orderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, apperr.Validation("corpo da requisição inválido"))
	}
	if !models.ValidStatusTransition(order.Status, req.Status) {
		return errorJSON(c, apperr.Validation("transição de status inválida: "+order.Status+" -> "+req.Status))
	}

	if err := repository.GetGlobalFactory().GetOrderRepository().UpdateStatus(order.ID, req.Status); err != nil {
		return errorJSON(c, apperr.Persistence("falha ao atualizar status do pedido", err))
	}
	order.Status = req.Status
	return c.JSON(order)
}

// HandleOrderTrack returns the delivery status of an order by its public
// UUID, without a session. The UUID is the tracking code the client
// receives when the order is placed; only status fields are exposed.
func HandleOrderTrack(c *fiber.Ctx) error {
	trackingCode := strings.TrimSpace(c.Params("uuid"))
	if trackingCode == "" {
		return errorJSON(c, apperr.Validation("código de rastreamento é obrigatório"))
	}
	order, err := repository.GetGlobalFactory().GetOrderRepository().GetByUUID(trackingCode)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{
		"uuid":        order.UUID,
		"status":      order.Status,
		"total_cents": order.TotalCents,
		"created_at":  order.CreatedAt,
		"updated_at":  order.UpdatedAt,
	})
}

// visibleOrderFromParam loads the :id order and checks it belongs to the
// session's store or client.
func visibleOrderFromParam(c *fiber.Ctx) (*models.Order, error) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	order, err := repository.GetGlobalFactory().GetOrderRepository().GetByID(id)
	if err != nil {
		return nil, err
	}

	userCtx := usercontext.GetUserContext(c)
	ownedByStore := userCtx.UserType == models.USER_TYPE_STORE && order.StoreID == userCtx.StoreID
	ownedByClient := userCtx.UserType == models.USER_TYPE_CLIENT && order.ClientID == userCtx.UserID
	if !ownedByStore && !ownedByClient {
		return nil, apperr.NotFound("pedido não encontrado")
	}
	return order, nil
}
