package controllers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gustavolopes/lojify/app/models"
	"github.com/gustavolopes/lojify/app/repository"
	"github.com/gustavolopes/lojify/internal/pkg/apperr"
	"github.com/gustavolopes/lojify/internal/pkg/storage"
	"github.com/gustavolopes/lojify/internal/pkg/usercontext"
)

var imageStore *storage.ImageStore

// InitializeProductController wires the product image store when object
// storage credentials are present.
func InitializeProductController() {
	cfg := storage.ConfigFromEnv()
	if !cfg.IsEnabled() {
		log.Println("[PRODUCTS] armazenamento de imagens desabilitado (sem credenciais S3)")
		return
	}
	st, err := storage.NewImageStore(cfg)
	if err != nil {
		log.Printf("[PRODUCTS] falha ao inicializar armazenamento de imagens: %v", err)
		return
	}
	imageStore = st
}

type productRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Available   *bool  `json:"available"`
}

// HandleProductCreate adds a catalog product to the authenticated store.
func HandleProductCreate(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, apperr.Validation("corpo da requisição inválido"))
	}

	product := &models.Product{
		StoreID:     usercontext.GetStoreID(c),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		PriceCents:  req.PriceCents,
		Available:   true,
	}
	if req.Available != nil {
		product.Available = *req.Available
	}
	if err := product.Validate(); err != nil {
		return errorJSON(c, apperr.Validation("dados do produto inválidos: "+err.Error()))
	}

	if err := repository.GetGlobalFactory().GetProductRepository().Create(product); err != nil {
		return errorJSON(c, apperr.Persistence("falha ao cadastrar produto", err))
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleProductList lists the authenticated store's products, including
// unavailable ones.
func HandleProductList(c *fiber.Ctx) error {
	offset, limit := pagination(c)
	products, err := repository.GetGlobalFactory().GetProductRepository().
		ListByStore(usercontext.GetStoreID(c), false, offset, limit)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"products": products})
}

// HandleCatalogBySlug is the public storefront catalog: available products
// only.
func HandleCatalogBySlug(c *fiber.Ctx) error {
	store, err := repository.GetGlobalFactory().GetStoreRepository().GetBySlug(c.Params("slug"))
	if err != nil {
		return errorJSON(c, err)
	}
	offset, limit := pagination(c)
	products, err := repository.GetGlobalFactory().GetProductRepository().
		ListByStore(store.ID, true, offset, limit)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"store": store, "products": products})
}

// HandleProductUpdate updates a product's catalog data.
func HandleProductUpdate(c *fiber.Ctx) error {
	product, err := storeProductFromParam(c)
	if err != nil {
		return errorJSON(c, err)
	}

	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, apperr.Validation("corpo da requisição inválido"))
	}
	if req.Name != "" {
		product.Name = strings.TrimSpace(req.Name)
	}
	if req.Description != "" {
		product.Description = strings.TrimSpace(req.Description)
	}
	if req.PriceCents > 0 {
		product.PriceCents = req.PriceCents
	}
	if req.Available != nil {
		product.Available = *req.Available
	}
	if err := product.Validate(); err != nil {
		return errorJSON(c, apperr.Validation("dados do produto inválidos: "+err.Error()))
	}

	if err := repository.GetGlobalFactory().GetProductRepository().Update(product); err != nil {
		return errorJSON(c, apperr.Persistence("falha ao atualizar produto", err))
	}
	return c.JSON(product)
}

// HandleProductDelete removes a product from the catalog.
func HandleProductDelete(c *fiber.Ctx) error {
	product, err := storeProductFromParam(c)
	if err != nil {
		return errorJSON(c, err)
	}
	if err := repository.GetGlobalFactory().GetProductRepository().Delete(product.ID); err != nil {
		return errorJSON(c, apperr.Persistence("falha ao remover produto", err))
	}
	return c.JSON(fiber.Map{"message": "produto removido"})
}

// HandleProductImageUpload stores a product image and saves its URL.
func HandleProductImageUpload(c *fiber.Ctx) error {
	if imageStore == nil {
		return errorJSON(c, apperr.Validation("armazenamento de imagens não configurado"))
	}
	product, err := storeProductFromParam(c)
	if err != nil {
		return errorJSON(c, err)
	}
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return errorJSON(c, apperr.Validation("arquivo de imagem é obrigatório"))
	}

	store, err := currentStore(c)
	if err != nil {
		return errorJSON(c, err)
	}
	url, err := imageStore.UploadProductImage(c.Context(), store.UUID, fileHeader)
	if err != nil {
		return errorJSON(c, err)
	}

	product.ImageURL = url
	if err := repository.GetGlobalFactory().GetProductRepository().Update(product); err != nil {
		return errorJSON(c, apperr.Persistence("falha ao salvar imagem do produto", err))
	}
	return c.JSON(product)
}

func storeProductFromParam(c *fiber.Ctx) (*models.Product, error) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	product, err := repository.GetGlobalFactory().GetProductRepository().GetByID(id)
	if err != nil {
		return nil, err
	}
	if product.StoreID != usercontext.GetStoreID(c) {
		return nil, apperr.NotFound("produto não encontrado")
	}
	return product, nil
}
