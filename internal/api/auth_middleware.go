// internal/api/auth_middleware.go
package api

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Corphon/PersonaForge/internal/auth"
	"github.com/Corphon/PersonaForge/internal/config"
	"github.com/Corphon/PersonaForge/internal/models"
	"github.com/Corphon/PersonaForge/internal/services"
	"github.com/gin-gonic/gin"
)

var tokenConfig *auth.TokenConfig

// InitializeAuth initializes the authentication system with config
func InitializeAuth() error {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}

	var secret []byte
	var err error

	// Try to get secret from environment variable first
	envSecret := os.Getenv("AUTH_SECRET_KEY")
	if envSecret != "" {
		secret = []byte(envSecret)
	} else {
		if cfg.DebugMode {
			// Use a consistent key during development to avoid session issues on restart
			secret = []byte("dev_auth_key_for_testing_purposes_only_")
			log.Printf("⚠️ 警告: 开发模式下使用固定认证密钥，生产环境请通过环境变量设置 AUTH_SECRET_KEY")
		} else {
			// Generate a truly random secret key if none is provided
			secret, err = auth.GenerateSecureKey(32) // 256-bit key
			if err != nil {
				// Fallback to a reasonably secure key based on multiple entropy sources
				entropy := fmt.Sprintf("%s_%d_%d", cfg.DataDir, time.Now().UnixNano(), os.Getpid())
				secret = []byte(entropy)
				log.Printf("Warning: When using derived keys, it is recommended to set them in environment variables AUTH_SECRET_KEY")
			}
		}
	}

	// Ensure the secret is exactly 32 bytes
	if len(secret) < 32 {
		paddedSecret := make([]byte, 32)
		copy(paddedSecret, secret)
		secret = paddedSecret
	} else if len(secret) > 32 {
		secret = secret[:32]
	}

	tokenConfig = &auth.TokenConfig{
		Secret:     secret,
		Expiration: 24 * time.Hour, // Token expires in 24 hours
	}

	return nil
}

// AuthMiddleware provides authentication for API endpoints.
// Requests to public endpoints pass through; everything else needs a
// valid Bearer token from a non-banned user.
func AuthMiddleware(userService *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isPublicEndpoint(c) {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if authHeader == "" || token == "" {
			abortUnauthorized(c, "Authentication required")
			return
		}

		parsedToken, err := auth.ParseToken(token, tokenConfig)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		// Reject tokens of users banned after the token was issued
		user, err := userService.GetUser(parsedToken.UserID)
		if err != nil {
			abortUnauthorized(c, "Unknown user")
			return
		}
		if user.Banned {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Account is banned",
				"code":    ErrorAccountBanned,
			})
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user_role", user.Role)
		c.Set("user_authenticated", true)

		c.Next()
	}
}

// RequireAdmin restricts an endpoint to admin users.
// Must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("user_role") != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Admin privileges required",
				"code":    ErrorForbidden,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   message,
		"code":    ErrorUnauthorized,
	})
	c.Abort()
}

// isPublicEndpoint checks if the current endpoint should skip authentication
func isPublicEndpoint(c *gin.Context) bool {
	publicPaths := []string{
		"/api/auth/register",
		"/api/auth/login",
		"/api/health",
	}

	currentPath := c.Request.URL.Path

	for _, path := range publicPaths {
		if currentPath == path {
			return true
		}
	}

	// Shared personas are viewable without an account
	if c.Request.Method == http.MethodGet && strings.HasPrefix(currentPath, "/api/shares/") {
		return true
	}

	return false
}

// GenerateUserToken creates an authentication token for a user
func GenerateUserToken(userID, role string) (string, error) {
	if tokenConfig == nil {
		return "", fmt.Errorf("auth not initialized")
	}

	return auth.GenerateToken(userID, role, tokenConfig)
}

// ParseUserToken validates a raw token string, for transports that cannot
// send an Authorization header (e.g. WebSocket query parameters)
func ParseUserToken(token string) (*auth.Token, error) {
	if tokenConfig == nil {
		return nil, fmt.Errorf("auth not initialized")
	}
	return auth.ParseToken(token, tokenConfig)
}

// GetUserFromContext retrieves the authenticated user from the context
func GetUserFromContext(c *gin.Context) (string, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		return "", false
	}
	return userID, c.GetBool("user_authenticated")
}

// isAdminRequest reports whether the current request carries the admin role
func isAdminRequest(c *gin.Context) bool {
	return c.GetString("user_role") == models.RoleAdmin
}
