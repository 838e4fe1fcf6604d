package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/decor-manager/internal/api/dto"
	"github.com/spec-kit/decor-manager/internal/auth"
	"github.com/spec-kit/decor-manager/internal/domain"
	"github.com/spec-kit/decor-manager/internal/service"
	apperrors "github.com/spec-kit/decor-manager/pkg/util"
)

// StoreFactory yields the storage namespaces of a client scope.
type StoreFactory func(clientID string) service.SessionStores

// AuthHandler exposes the session controller of the calling client.
type AuthHandler struct {
	sessions *service.SessionService
	stores   StoreFactory
	tokens   *auth.TokenManager
}

// NewAuthHandler constructs handler.
func NewAuthHandler(sessions *service.SessionService, stores StoreFactory, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{sessions: sessions, stores: stores, tokens: tokens}
}

func (h *AuthHandler) session(c *fiber.Ctx) *service.Session {
	return h.sessions.Open(c.UserContext(), h.stores(auth.ClientIDFromContext(c)))
}

// SendOTP handles POST /auth/otp/send.
func (h *AuthHandler) SendOTP(c *fiber.Ctx) error {
	var req dto.SendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	sess := h.session(c)
	if err := sess.SendOTP(c.UserContext(), req.Phone); err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"data": sess.OTPStatus(c.UserContext())})
}

// VerifyOTP handles POST /auth/otp/verify.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	if req.Code == "" {
		return apperrors.NewValidationReason(apperrors.ReasonMissingFields, "code required")
	}
	sess := h.session(c)
	res, err := sess.VerifyOTP(c.UserContext(), req.Phone, req.Code, req.Remember)
	if err != nil {
		return err
	}
	if !res.Matched {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"data": dto.VerifyOTPResponse{Matched: false, AttemptsRemaining: res.AttemptsRemaining},
		})
	}
	return h.respondSession(c, sess, true)
}

// ResendOTP handles POST /auth/otp/resend.
func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	sess := h.session(c)
	if err := sess.ResendOTP(c.UserContext()); err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"data": sess.OTPStatus(c.UserContext())})
}

// BackToPhone handles POST /auth/otp/back.
func (h *AuthHandler) BackToPhone(c *fiber.Ctx) error {
	sess := h.session(c)
	sess.BackToPhone(c.UserContext())
	return c.JSON(fiber.Map{"data": sess.OTPStatus(c.UserContext())})
}

// OTPStatus handles GET /auth/otp/status.
func (h *AuthHandler) OTPStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.session(c).OTPStatus(c.UserContext())})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.EmailLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	sess := h.session(c)
	if _, err := sess.LoginWithEmail(c.UserContext(), req.Email, req.Password, req.Remember); err != nil {
		return err
	}
	return h.respondSession(c, sess, true)
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}
	identity, err := h.session(c).Register(c.UserContext(), service.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Role:            domain.Role(req.Role),
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user":            identity,
			"pendingApproval": !identity.IsActive,
		},
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.session(c).Logout(c.UserContext())
	return c.SendStatus(fiber.StatusNoContent)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return h.respondSession(c, h.session(c), false)
}

// Permission handles GET /auth/permissions/:perm.
func (h *AuthHandler) Permission(c *fiber.Ctx) error {
	perm := c.Params("perm")
	return c.JSON(fiber.Map{"data": dto.PermissionResponse{
		Permission: perm,
		Granted:    h.session(c).HasPermission(perm),
	}})
}

// Providers handles GET /auth/providers.
func (h *AuthHandler) Providers(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.session(c).Providers(c.UserContext())})
}

// UpdateProviders handles PUT /auth/providers.
func (h *AuthHandler) UpdateProviders(c *fiber.Ctx) error {
	sess := h.session(c)
	providers := sess.Providers(c.UserContext())
	if err := c.BodyParser(&providers); err != nil {
		return invalidPayload()
	}
	sess.SetProviders(c.UserContext(), providers)
	return c.JSON(fiber.Map{"data": providers})
}

func (h *AuthHandler) respondSession(c *fiber.Ctx, sess *service.Session, issueToken bool) error {
	identity, ok := sess.Current()
	if !ok {
		return apperrors.NewUnauthorized("not signed in")
	}
	role, _ := sess.RoleInfo()
	resp := dto.SessionResponse{
		User:        *identity,
		Role:        role,
		Permissions: sess.Permissions(),
	}
	if issueToken {
		token, exp, err := h.tokens.GenerateToken(*identity, auth.ClientIDFromContext(c))
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		resp.Auth = &dto.AuthResponse{Token: token, ExpiresAt: exp}
	}
	return c.JSON(fiber.Map{"data": resp})
}

func invalidPayload() error {
	return apperrors.NewValidationReason(apperrors.ReasonInvalidPayload, "invalid payload")
}
