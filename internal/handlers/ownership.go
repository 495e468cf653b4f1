package handlers

import (
	"database/sql"
	"net/http"

	"github.com/adam-tarek99/blog-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

type ownershipDecision int

const (
	decisionAllowed ownershipDecision = iota
	decisionForbidden
)

// authorizeOwner is the single authorization rule in the system: a mutation
// is allowed only when the resource's creator is the acting user. Callers
// must check existence first so a 404 is never masked as a 403.
func authorizeOwner(ownerID int, userID int) ownershipDecision {
	if ownerID == userID {
		return decisionAllowed
	}
	return decisionForbidden
}

func fetchPostOwner(db *sql.DB, postID int) (int, error) {
	var ownerID int
	err := db.QueryRow(`SELECT created_by FROM posts WHERE id = $1`, postID).Scan(&ownerID)
	return ownerID, err
}

func fetchCommentOwner(db *sql.DB, commentID int) (int, error) {
	var ownerID int
	err := db.QueryRow(`SELECT created_by FROM comments WHERE id = $1`, commentID).Scan(&ownerID)
	return ownerID, err
}

// currentUserID pulls the user id set by the auth middleware.
func currentUserID(c *gin.Context) (int, bool) {
	userIDInterface, exists := c.Get(middleware.UserIDContextKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}

	userID, ok := userIDInterface.(int)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID"})
		return 0, false
	}

	return userID, true
}
