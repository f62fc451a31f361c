package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/demandcast/demandcast/internal/logging"
	"github.com/demandcast/demandcast/internal/models"
	"github.com/demandcast/demandcast/internal/utils"
)

// ValidateAPIKey checks if an API key meets the security requirements
func ValidateAPIKey(key string) bool {
	if len(key) < utils.MinAPIKeyLength {
		return false
	}
	if strings.TrimSpace(key) == "" {
		return false
	}
	return true
}

// APIKeyAuth creates an API key authentication middleware
func APIKeyAuth(logger *logging.Logger, apiKeys []string, enabled bool) fiber.Handler {
	// If auth is disabled, allow all requests
	if !enabled {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	// Build map for O(1) lookup, skipping keys that fail validation
	keyMap := make(map[string]bool)
	for _, key := range apiKeys {
		if key == "" {
			continue
		}
		if !ValidateAPIKey(key) {
			logger.Warn("API key does not meet security requirements",
				"key_length", len(key),
				"min_required", utils.MinAPIKeyLength,
				"key_prefix", maskAPIKey(key),
			)
			continue
		}
		keyMap[key] = true
	}

	if len(keyMap) == 0 && len(apiKeys) > 0 {
		logger.Error("No valid API keys configured - all provided keys failed validation",
			"total_keys", len(apiKeys),
			"min_required_length", utils.MinAPIKeyLength,
		)
	}

	return func(c *fiber.Ctx) error {
		// Accept the key via X-API-Key, Authorization: Bearer <key>, or a
		// plain Authorization header
		apiKey := c.Get("X-API-Key")
		if apiKey == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" {
				if after, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
					apiKey = after
				} else {
					apiKey = authHeader
				}
			}
		}

		if apiKey == "" {
			logger.Warn("API key missing",
				"path", c.Path(),
				"method", c.Method(),
				"ip", c.IP(),
			)
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "UNAUTHORIZED",
					Message: "API key is required. Provide it via X-API-Key header or Authorization header.",
				},
			})
		}

		if !keyMap[apiKey] {
			logger.Warn("Invalid API key",
				"path", c.Path(),
				"method", c.Method(),
				"ip", c.IP(),
				"api_key_prefix", maskAPIKey(apiKey),
			)
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "UNAUTHORIZED",
					Message: "Invalid API key.",
				},
			})
		}

		logger.Debug("API key authenticated",
			"path", c.Path(),
			"method", c.Method(),
			"ip", c.IP(),
		)

		return c.Next()
	}
}

// maskAPIKey masks API key for logging (show only first 4 chars)
func maskAPIKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}
