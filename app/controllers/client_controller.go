package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/gustavolopes/lojify/app/models"
	"github.com/gustavolopes/lojify/app/repository"
	"github.com/gustavolopes/lojify/internal/pkg/apperr"
	"github.com/gustavolopes/lojify/internal/pkg/usercontext"
)

type clientRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// HandleClientCreate registers a client for the authenticated store. The
// entitlement is evaluated first; a store at its client limit gets a 403
// with upgrade guidance instead of a new record.
func HandleClientCreate(c *fiber.Ctx) error {
	storeID := usercontext.GetStoreID(c)

	ent, err := billingService.CheckSubscription(c.Context(), storeID)
	if err != nil {
		return errorJSON(c, err)
	}
	if !ent.CanAddClients {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":       "client_limit_reached",
			"message":     "limite de clientes atingido, assine ou faça upgrade do plano",
			"entitlement": ent,
		})
	}

	var req clientRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, apperr.Validation("corpo da requisição inválido"))
	}

	client := &models.Client{
		StoreID: storeID,
		Name:    strings.TrimSpace(req.Name),
		Phone:   strings.TrimSpace(req.Phone),
		Address: strings.TrimSpace(req.Address),
	}
	if err := client.Validate(); err != nil {
		return errorJSON(c, apperr.Validation("dados do cliente inválidos: "+err.Error()))
	}

	clientRepo := repository.GetGlobalFactory().GetClientRepository()
	if _, err := clientRepo.GetByPhone(storeID, client.Phone); err == nil {
		return errorJSON(c, apperr.Validation("telefone já cadastrado para esta loja"))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return errorJSON(c, err)
	}

	if err := clientRepo.Create(client); err != nil {
		return errorJSON(c, apperr.Persistence("falha ao cadastrar cliente", err))
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

// HandleClientList lists the authenticated store's clients.
func HandleClientList(c *fiber.Ctx) error {
	storeID := usercontext.GetStoreID(c)
	offset, limit := pagination(c)

	clientRepo := repository.GetGlobalFactory().GetClientRepository()
	clients, err := clientRepo.ListByStore(storeID, offset, limit)
	if err != nil {
		return errorJSON(c, err)
	}
	total, err := clientRepo.CountByStore(storeID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"clients": clients, "total": total})
}

// HandleClientGet returns one client of the authenticated store.
func HandleClientGet(c *fiber.Ctx) error {
	client, err := storeClientFromParam(c)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(client)
}

// HandleClientUpdate updates a client's contact data.
func HandleClientUpdate(c *fiber.Ctx) error {
	client, err := storeClientFromParam(c)
	if err != nil {
		return errorJSON(c, err)
	}

	var req clientRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, apperr.Validation("corpo da requisição inválido"))
	}
	if req.Name != "" {
		client.Name = strings.TrimSpace(req.Name)
	}
	if req.Phone != "" {
		client.Phone = strings.TrimSpace(req.Phone)
	}
	if req.Address != "" {
		client.Address = strings.TrimSpace(req.Address)
	}
	if err := client.Validate(); err != nil {
		return errorJSON(c, apperr.Validation("dados do cliente inválidos: "+err.Error()))
	}

	if err := repository.GetGlobalFactory().GetClientRepository().Update(client); err != nil {
		return errorJSON(c, apperr.Persistence("falha ao atualizar cliente", err))
	}
	return c.JSON(client)
}

// HandleClientDelete removes a client and decrements the usage counter.
func HandleClientDelete(c *fiber.Ctx) error {
	client, err := storeClientFromParam(c)
	if err != nil {
		return errorJSON(c, err)
	}
	if err := repository.GetGlobalFactory().GetClientRepository().Delete(client.ID); err != nil {
		return errorJSON(c, apperr.Persistence("falha ao remover cliente", err))
	}
	return c.JSON(fiber.Map{"message": "cliente removido"})
}

// storeClientFromParam loads the :id client and checks tenant ownership.
func storeClientFromParam(c *fiber.Ctx) (*models.Client, error) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	client, err := repository.GetGlobalFactory().GetClientRepository().GetByID(id)
	if err != nil {
		return nil, err
	}
	if client.StoreID != usercontext.GetStoreID(c) {
		// Cross-tenant reads look like absence, not denial.
		return nil, apperr.NotFound("cliente não encontrado")
	}
	return client, nil
}
