package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/wicaksana/swara/adapters/telegram"
	"github.com/wicaksana/swara/domain/repositories"
	"github.com/wicaksana/swara/internal/auth"
	"github.com/wicaksana/swara/internal/bot"
)

// secretTokenHeader carries the webhook secret the platform echoes
// back on every delivery.
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Dispatcher    *bot.Dispatcher
	Gateway       repositories.Gateway
	Prefs         repositories.PreferenceRepository
	Auth          *auth.Service
	WebhookURL    string
	WebhookSecret string
	Logger        *zap.Logger
}

// InitRoutes wires all HTTP routes.
func InitRoutes(e *echo.Echo, deps Deps) {
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Bot is running!")
	})

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "swara",
		})
	})

	e.POST("/webhook", func(c echo.Context) error {
		return handleWebhook(c, deps)
	})

	e.GET("/set_webhook", func(c echo.Context) error {
		return handleSetWebhook(c, deps)
	})

	v1 := e.Group("/api/v1")
	v1.GET("/stats", func(c echo.Context) error {
		return handleStats(c, deps)
	})
}

// handleWebhook accepts one update and dispatches it in the
// background; the platform only needs the 200.
func handleWebhook(c echo.Context, deps Deps) error {
	if deps.WebhookSecret != "" && c.Request().Header.Get(secretTokenHeader) != deps.WebhookSecret {
		deps.Logger.Warn("Webhook delivery with bad secret token")
		return c.NoContent(http.StatusForbidden)
	}

	var update telegram.Update
	if err := c.Bind(&update); err != nil {
		deps.Logger.Warn("Failed to parse update", zap.Error(err))
		return c.NoContent(http.StatusBadRequest)
	}

	go deps.Dispatcher.Dispatch(update)
	return c.NoContent(http.StatusOK)
}

func handleSetWebhook(c echo.Context, deps Deps) error {
	if deps.WebhookURL == "" {
		return c.String(http.StatusInternalServerError, "WEBHOOK_URL is not configured")
	}

	url := strings.TrimSuffix(deps.WebhookURL, "/") + "/webhook"
	if err := deps.Gateway.SetWebhook(c.Request().Context(), url); err != nil {
		deps.Logger.Error("Failed to set webhook", zap.Error(err))
		return c.String(http.StatusBadGateway, "Failed to set webhook")
	}
	return c.String(http.StatusOK, "Webhook set!")
}

// handleStats serves preference totals to bearer-JWT holders.
func handleStats(c echo.Context, deps Deps) error {
	if !deps.Auth.Enabled() {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "admin_disabled",
			Message: "Admin API is not configured",
		})
	}

	var token string
	authHeader := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		token = strings.TrimPrefix(authHeader, "Bearer ")
	}
	if token == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "missing_token",
			Message: "JWT token is required in Authorization header",
		})
	}

	claims, err := deps.Auth.ValidateToken(token)
	if err != nil {
		deps.Logger.Warn("Stats request rejected: invalid token", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid or expired JWT token",
		})
	}
	if claims.Role != "admin" {
		return c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "invalid_role",
			Message: "Only admin tokens may read stats",
		})
	}

	stats, err := deps.Prefs.Stats(c.Request().Context())
	if err != nil {
		deps.Logger.Error("Failed to read stats", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to read stats",
		})
	}
	return c.JSON(http.StatusOK, stats)
}
