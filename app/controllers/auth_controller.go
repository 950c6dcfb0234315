package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gustavolopes/lojify/app/models"
	"github.com/gustavolopes/lojify/app/repository"
	"github.com/gustavolopes/lojify/internal/pkg/apperr"
	"github.com/gustavolopes/lojify/internal/pkg/session"
	"github.com/gustavolopes/lojify/internal/pkg/sms"
	"github.com/gustavolopes/lojify/internal/pkg/usercontext"
)

var smsVerifier sms.Verifier = sms.NewStubVerifier()

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// HandleLogin authenticates admin and store users by login and password.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, apperr.Validation("corpo da requisição inválido"))
	}
	req.Login = strings.TrimSpace(strings.ToLower(req.Login))
	if req.Login == "" || req.Password == "" {
		return errorJSON(c, apperr.Validation("login e senha são obrigatórios"))
	}

	repo := repository.GetGlobalFactory().GetAuthUserRepository()
	user, err := repo.GetByLogin(req.Login)
	if err != nil || !user.CheckPassword(req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login ou senha incorretos",
		})
	}
	if user.UserType == models.USER_TYPE_CLIENT {
		// Clients authenticate by phone code, not password.
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "login ou senha incorretos",
		})
	}

	var store *models.Store
	if user.UserType == models.USER_TYPE_STORE {
		store, err = repository.GetGlobalFactory().GetStoreRepository().GetByAuthUserID(user.ID)
		if err != nil {
			return errorJSON(c, err)
		}
	}

	if err := startSession(c, user, store); err != nil {
		return errorJSON(c, apperr.Persistence("falha ao iniciar sessão", err))
	}
	_ = repo.UpdateLastLogin(user.ID)

	resp := fiber.Map{"user_type": user.UserType}
	if store != nil {
		resp["store"] = store
	}
	return c.JSON(resp)
}

type clientCodeRequest struct {
	StoreSlug string `json:"store_slug"`
	Phone     string `json:"phone"`
	Code      string `json:"code"`
}

// HandleClientRequestCode triggers an SMS login code for a store's client.
func HandleClientRequestCode(c *fiber.Ctx) error {
	var req clientCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, apperr.Validation("corpo da requisição inválido"))
	}
	_, client, err := findStoreClient(req.StoreSlug, req.Phone)
	if err != nil {
		return errorJSON(c, err)
	}
	if err := smsVerifier.SendCode(client.Phone); err != nil {
		return errorJSON(c, apperr.Provider("falha ao enviar código SMS", err))
	}
	return c.JSON(fiber.Map{"message": "código enviado"})
}

// HandleClientVerifyCode logs a client in when the SMS code matches.
func HandleClientVerifyCode(c *fiber.Ctx) error {
	var req clientCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, apperr.Validation("corpo da requisição inválido"))
	}
	store, client, err := findStoreClient(req.StoreSlug, req.Phone)
	if err != nil {
		return errorJSON(c, err)
	}
	if !smsVerifier.CheckCode(client.Phone, req.Code) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "código inválido",
		})
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return errorJSON(c, apperr.Persistence("falha ao iniciar sessão", err))
	}
	sess.Set(usercontext.AuthKey, true)
	sess.Set(usercontext.KeyUserID, client.ID)
	sess.Set(usercontext.KeyUserType, models.USER_TYPE_CLIENT)
	sess.Set(usercontext.KeyStoreID, store.ID)
	sess.Set(usercontext.KeyStoreSlug, store.Slug)
	sess.Set(usercontext.KeyDisplayName, client.Name)
	if err := sess.Save(); err != nil {
		return errorJSON(c, apperr.Persistence("falha ao salvar sessão", err))
	}

	return c.JSON(fiber.Map{"user_type": models.USER_TYPE_CLIENT, "client": client})
}

// HandleLogout destroys the current session.
func HandleLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		_ = sess.Destroy()
	}
	return c.JSON(fiber.Map{"message": "sessão encerrada"})
}

// HandleMe returns the identity bound to the current session.
func HandleMe(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "nenhuma sessão ativa",
		})
	}
	return c.JSON(fiber.Map{
		"user_id":      userCtx.UserID,
		"user_type":    userCtx.UserType,
		"store_id":     userCtx.StoreID,
		"store_slug":   userCtx.StoreSlug,
		"display_name": userCtx.DisplayName,
	})
}

func startSession(c *fiber.Ctx, user *models.AuthUser, store *models.Store) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return err
	}
	sess.Set(usercontext.AuthKey, true)
	sess.Set(usercontext.KeyUserID, user.ID)
	sess.Set(usercontext.KeyUserType, user.UserType)
	if store != nil {
		sess.Set(usercontext.KeyStoreID, store.ID)
		sess.Set(usercontext.KeyStoreSlug, store.Slug)
		sess.Set(usercontext.KeyDisplayName, store.Name)
	} else {
		sess.Set(usercontext.KeyDisplayName, user.Login)
	}
	return sess.Save()
}

func findStoreClient(slug, phone string) (*models.Store, *models.Client, error) {
	slug = strings.TrimSpace(slug)
	phone = strings.TrimSpace(phone)
	if slug == "" || phone == "" {
		return nil, nil, apperr.Validation("loja e telefone são obrigatórios")
	}
	store, err := repository.GetGlobalFactory().GetStoreRepository().GetBySlug(slug)
	if err != nil {
		return nil, nil, err
	}
	client, err := repository.GetGlobalFactory().GetClientRepository().GetByPhone(store.ID, phone)
	if err != nil {
		return nil, nil, err
	}
	return store, client, nil
}
