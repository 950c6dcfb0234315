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

type storeRegisterRequest struct {
	CNPJ            string `json:"cnpj"`
	Name            string `json:"name"`
	Subtitle        string `json:"subtitle"`
	PrimaryColor    string `json:"primary_color"`
	Address         string `json:"address"`
	ResponsibleName string `json:"responsible_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
}

// HandleStoreRegister self-registers a new store tenant. The owner login is
// the billing email; the store slug is derived from the name and must be
// unique.
func HandleStoreRegister(c *fiber.Ctx) error {
	var req storeRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, apperr.Validation("corpo da requisição inválido"))
	}
	if len(req.Password) < 6 {
		return errorJSON(c, apperr.Validation("senha deve ter no mínimo 6 caracteres"))
	}

	store := &models.Store{
		CNPJ:            strings.TrimSpace(req.CNPJ),
		Name:            strings.TrimSpace(req.Name),
		Subtitle:        strings.TrimSpace(req.Subtitle),
		PrimaryColor:    strings.TrimSpace(req.PrimaryColor),
		Address:         strings.TrimSpace(req.Address),
		ResponsibleName: strings.TrimSpace(req.ResponsibleName),
		Email:           strings.TrimSpace(strings.ToLower(req.Email)),
	}
	store.Slug = models.SlugFromName(store.Name)
	if err := store.Validate(); err != nil {
		return errorJSON(c, apperr.Validation("dados da loja inválidos: "+err.Error()))
	}

	storeRepo := repository.GetGlobalFactory().GetStoreRepository()
	if _, err := storeRepo.GetByCNPJ(store.CNPJ); err == nil {
		return errorJSON(c, apperr.Validation("CNPJ já cadastrado"))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return errorJSON(c, err)
	}
	if _, err := storeRepo.GetBySlug(store.Slug); err == nil {
		return errorJSON(c, apperr.Validation("Nome da loja já existe, escolha outro nome"))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return errorJSON(c, err)
	}

	user := &models.AuthUser{
		Login:    store.Email,
		UserType: models.USER_TYPE_STORE,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return errorJSON(c, apperr.Persistence("falha ao processar senha", err))
	}
	if _, err := repository.GetGlobalFactory().GetAuthUserRepository().GetByLogin(user.Login); err == nil {
		return errorJSON(c, apperr.Validation("e-mail já cadastrado"))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return errorJSON(c, err)
	}

	if err := storeRepo.Create(store, user); err != nil {
		return errorJSON(c, apperr.Persistence("falha ao cadastrar loja", err))
	}

	if err := startSession(c, user, store); err != nil {
		// The store exists; the owner can still log in normally.
		return c.Status(fiber.StatusCreated).JSON(store)
	}
	return c.Status(fiber.StatusCreated).JSON(store)
}

// HandleStoreMe returns the authenticated store's own record.
func HandleStoreMe(c *fiber.Ctx) error {
	store, err := currentStore(c)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(store)
}

type storeUpdateRequest struct {
	Name            *string `json:"name"`
	Subtitle        *string `json:"subtitle"`
	PrimaryColor    *string `json:"primary_color"`
	Address         *string `json:"address"`
	ResponsibleName *string `json:"responsible_name"`
	PaymentEnabled  *bool   `json:"payment_enabled"`
}

// HandleStoreUpdate updates the authenticated store's profile. Name changes
// do not re-slug; the public URL stays stable.
func HandleStoreUpdate(c *fiber.Ctx) error {
	store, err := currentStore(c)
	if err != nil {
		return errorJSON(c, err)
	}

	var req storeUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, apperr.Validation("corpo da requisição inválido"))
	}
	if req.Name != nil {
		store.Name = strings.TrimSpace(*req.Name)
	}
	if req.Subtitle != nil {
		store.Subtitle = strings.TrimSpace(*req.Subtitle)
	}
	if req.PrimaryColor != nil {
		store.PrimaryColor = strings.TrimSpace(*req.PrimaryColor)
	}
	if req.Address != nil {
		store.Address = strings.TrimSpace(*req.Address)
	}
	if req.ResponsibleName != nil {
		store.ResponsibleName = strings.TrimSpace(*req.ResponsibleName)
	}
	if req.PaymentEnabled != nil {
		store.PaymentEnabled = *req.PaymentEnabled
	}
	if err := store.Validate(); err != nil {
		return errorJSON(c, apperr.Validation("dados da loja inválidos: "+err.Error()))
	}

	if err := repository.GetGlobalFactory().GetStoreRepository().Update(store); err != nil {
		return errorJSON(c, apperr.Persistence("falha ao atualizar loja", err))
	}
	return c.JSON(store)
}

// HandleStoreBySlug returns the public storefront data for a store.
func HandleStoreBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")
	store, err := repository.GetGlobalFactory().GetStoreRepository().GetBySlug(slug)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(store)
}

// HandleStoreList lists all stores for the admin dashboard.
func HandleStoreList(c *fiber.Ctx) error {
	offset, limit := pagination(c)
	storeRepo := repository.GetGlobalFactory().GetStoreRepository()

	stores, err := storeRepo.List(offset, limit)
	if err != nil {
		return errorJSON(c, err)
	}
	total, err := storeRepo.Count()
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"stores": stores, "total": total})
}

// currentStore resolves the store bound to the session.
func currentStore(c *fiber.Ctx) (*models.Store, error) {
	storeID := usercontext.GetStoreID(c)
	if storeID == 0 {
		return nil, apperr.Validation("sessão sem loja associada")
	}
	return repository.GetGlobalFactory().GetStoreRepository().GetByID(storeID)
}
