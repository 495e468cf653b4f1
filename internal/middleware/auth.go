package middleware

import (
	"database/sql"
	"log"
	"net/http"
	"strings"

	"github.com/adam-tarek99/blog-api/internal/database"
	"github.com/adam-tarek99/blog-api/internal/models"
	"github.com/adam-tarek99/blog-api/internal/utils"

	"github.com/gin-gonic/gin"
)

// Context keys under which AuthMiddleware attaches the resolved identity.
// Handlers read these instead of re-declaring the strings.
const (
	UserIDContextKey      = "user_id"
	CurrentUserContextKey = "current_user"
)

// CurrentUser returns the authenticated user attached by AuthMiddleware.
func CurrentUser(c *gin.Context) (models.User, bool) {
	value, ok := c.Get(CurrentUserContextKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}

// AuthMiddleware verifies the bearer token and resolves the account behind
// it. A missing header, a malformed or expired token, and a token for a
// deleted account all produce the same 401; the handler only ever sees a
// fully resolved user.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header is required",
			})
			c.Abort()
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header must be in the format 'Bearer {token}'",
			})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenParts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid token",
			})
			c.Abort()
			return
		}

		// The signature check alone is not enough: the account may have
		// been deleted since the token was issued.
		var user models.User
		err = database.DB.QueryRow(
			`SELECT id, username, email, created_at, updated_at FROM users WHERE id = $1`,
			claims.UserID,
		).Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
				c.Abort()
				return
			}
			log.Printf("Error loading user for token user_id=%d: %v", claims.UserID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error authenticating request"})
			c.Abort()
			return
		}

		c.Set(UserIDContextKey, user.ID)
		c.Set(CurrentUserContextKey, user)
		c.Next()
	}
}
