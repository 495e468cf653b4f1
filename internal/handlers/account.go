package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/adam-tarek99/blog-api/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

type deleteUserSummary struct {
	UserID           int   `json:"user_id"`
	DeletedPosts     int64 `json:"deleted_posts"`
	DeletedComments  int64 `json:"deleted_comments"`
	DeletedLikes     int64 `json:"deleted_likes"`
	OrphanedComments int64 `json:"orphaned_comments"`
}

func collectUserPostIDs(tx *sql.Tx, userID int) ([]int, error) {
	rows, err := tx.Query(`SELECT id FROM posts WHERE created_by = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var postIDs []int
	for rows.Next() {
		var postID int
		if scanErr := rows.Scan(&postID); scanErr != nil {
			return nil, scanErr
		}
		postIDs = append(postIDs, postID)
	}
	return postIDs, rows.Err()
}

// deleteUserAndRelatedData removes the account, its posts, its comments and
// its likes in one transaction. Comments by other users on the deleted posts
// stay behind; they are counted in the summary so operators can see the
// orphans being created.
func deleteUserAndRelatedData(db *sql.DB, userID int) (deleteUserSummary, error) {
	summary := deleteUserSummary{UserID: userID}

	tx, err := db.Begin()
	if err != nil {
		return summary, err
	}
	defer tx.Rollback()

	var existingUserID int
	if err := tx.QueryRow(`SELECT id FROM users WHERE id = $1`, userID).Scan(&existingUserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return summary, sql.ErrNoRows
		}
		return summary, err
	}

	postIDs, err := collectUserPostIDs(tx, userID)
	if err != nil {
		return summary, err
	}
	summary.DeletedPosts = int64(len(postIDs))

	if len(postIDs) > 0 {
		if err := tx.QueryRow(
			`SELECT COUNT(*) FROM comments WHERE post_id = ANY($1) AND created_by <> $2`,
			pq.Array(postIDs),
			userID,
		).Scan(&summary.OrphanedComments); err != nil {
			return summary, err
		}
	}

	if err := tx.QueryRow(`SELECT COUNT(*) FROM comments WHERE created_by = $1`, userID).Scan(&summary.DeletedComments); err != nil {
		return summary, err
	}

	if err := tx.QueryRow(`SELECT COUNT(*) FROM post_likes WHERE user_id = $1`, userID).Scan(&summary.DeletedLikes); err != nil {
		return summary, err
	}

	// Posts, own comments and likes go with the user row via ON DELETE
	// CASCADE. Comments referencing the deleted posts have no foreign key
	// and are intentionally left in place.
	result, err := tx.Exec(`DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return summary, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return summary, err
	}
	if rowsAffected == 0 {
		return summary, sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		return summary, err
	}

	return summary, nil
}

// MonitorDeleteUserByEmail removes an account through the monitoring API.
// Tokens issued to the account before deletion keep a valid signature but
// are rejected by the auth middleware once the user row is gone.
func MonitorDeleteUserByEmail(c *gin.Context) {
	if !checkMonitoringToken(c) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(c.Query("email")))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
		return
	}

	var userID int
	if err := database.DB.QueryRow(`SELECT id FROM users WHERE lower(email) = $1`, email).Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Printf("Error finding user by email=%s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error looking up user"})
		return
	}

	summary, err := deleteUserAndRelatedData(database.DB, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		log.Printf("Error deleting user email=%s user_id=%d: %v", email, userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deleted successfully",
		"email":   email,
		"user_id": strconv.Itoa(userID),
		"summary": summary,
	})
}
