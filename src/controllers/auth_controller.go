package controllers

import (
	"time"

	"bagbanter-api/src/controllers/middleware"
	"bagbanter-api/src/controllers/models"
	"bagbanter-api/src/infrastructure/log"
	"bagbanter-api/src/services/auth"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	authenticator auth.Authenticator
	logger        log.Logger
	cookieSecure  bool
}

func NewAuthController(authenticator auth.Authenticator, logger log.Logger, cookieSecure bool) *AuthController {
	return &AuthController{
		authenticator: authenticator,
		logger:        logger,
		cookieSecure:  cookieSecure,
	}
}

func (c *AuthController) Route(app *fiber.App, requireAdmin fiber.Handler) {
	api := app.Group("/api/auth")
	api.Post("/login", c.Login)
	api.Post("/logout", c.Logout)
	api.Get("/me", requireAdmin, c.Me)
	api.Post("/register", c.Register)
}

// Login godoc
// @Summary      Admin login
// @Description  Checks the admin credentials and starts a session cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      models.LoginRequest  true  "Admin credentials"
// @Success      200          {object}  models.LoginResponse
// @Failure      401          {object}  models.MessageResponse
// @Router       /api/auth/login [post]
func (c *AuthController) Login(ctx *fiber.Ctx) error {
	var request models.LoginRequest
	if err := ctx.BodyParser(&request); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(models.MessageResponse{Message: "Invalid request body"})
	}

	session, err := c.authenticator.Login(ctx.UserContext(), request.Email, request.Password)
	if err != nil {
		return middleware.WriteError(ctx, c.logger, err)
	}

	ctx.Cookie(c.sessionCookie(session.Token, session.ExpiresAt))
	return ctx.JSON(models.LoginResponse{
		ID:        session.Principal.ID,
		Email:     session.Principal.Email,
		Role:      session.Principal.Role,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

// Logout godoc
// @Summary      Admin logout
// @Description  Revokes the current session and clears the cookie
// @Tags         auth
// @Produce      json
// @Success      200  {object}  models.MessageResponse
// @Failure      503  {object}  models.MessageResponse
// @Router       /api/auth/logout [post]
func (c *AuthController) Logout(ctx *fiber.Ctx) error {
	if err := c.authenticator.Logout(ctx.UserContext(), middleware.Credential(ctx)); err != nil {
		return middleware.WriteError(ctx, c.logger, err)
	}

	ctx.Cookie(c.sessionCookie("", time.Unix(0, 0)))
	return ctx.JSON(models.MessageResponse{Message: "Logged out"})
}

// Me godoc
// @Summary      Current admin
// @Tags         auth
// @Produce      json
// @Security     AdminSession
// @Success      200  {object}  auth.Principal
// @Failure      401  {object}  models.MessageResponse
// @Router       /api/auth/me [get]
func (c *AuthController) Me(ctx *fiber.Ctx) error {
	return ctx.JSON(middleware.PrincipalFrom(ctx))
}

// Register godoc
// @Summary      Registration (disabled)
// @Tags         auth
// @Produce      json
// @Failure      403  {object}  models.MessageResponse
// @Router       /api/auth/register [post]
func (c *AuthController) Register(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusForbidden).JSON(models.MessageResponse{Message: "Registration is disabled."})
}

func (c *AuthController) sessionCookie(value string, expires time.Time) *fiber.Cookie {
	sameSite := fiber.CookieSameSiteLaxMode
	if c.cookieSecure {
		// the storefront is served from another origin
		sameSite = fiber.CookieSameSiteNoneMode
	}
	return &fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   c.cookieSecure,
		SameSite: sameSite,
	}
}
