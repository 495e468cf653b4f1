package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/adam-tarek99/blog-api/internal/database"
	"github.com/adam-tarek99/blog-api/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateComment adds a comment to a post. The target post's existence is
// not verified; a comment may reference a post that was deleted between the
// client reading it and submitting.
func CreateComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content"`
		PostID  int    `json:"postId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" || req.PostID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content and postId are required"})
		return
	}

	db := database.DB
	var comment models.Comment
	comment.Content = content
	comment.PostID = req.PostID
	comment.CreatedBy = userID

	query := `INSERT INTO comments (content, post_id, created_by) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`
	err := db.QueryRow(query, content, req.PostID, userID).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		log.Printf("Error creating comment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating comment"})
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// GetCommentsByPost returns a post's comments, newest first, with creators
// populated. Public, no authentication required.
func GetCommentsByPost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("postId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	db := database.DB
	query := `
		SELECT c.id, c.content, c.post_id, c.created_by, c.created_at, c.updated_at,
		       u.username, u.email
		FROM comments c
		JOIN users u ON u.id = c.created_by
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC, c.id DESC
	`

	rows, err := db.Query(query, postID)
	if err != nil {
		log.Printf("Error retrieving comments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving comments"})
		return
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		var comment models.Comment
		var username, email string
		scanErr := rows.Scan(
			&comment.ID,
			&comment.Content,
			&comment.PostID,
			&comment.CreatedBy,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&username,
			&email,
		)
		if scanErr != nil {
			log.Printf("Error scanning comment: %v", scanErr)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning comment"})
			return
		}
		comment.Creator = &models.UserSummary{ID: comment.CreatedBy, Username: username, Email: email}
		comments = append(comments, comment)
	}

	c.JSON(http.StatusOK, comments)
}

// UpdateComment edits a comment's content. Only the comment's creator may
// edit it; existence is checked before ownership.
func UpdateComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	db := database.DB

	ownerID, err := fetchCommentOwner(db, commentID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		log.Printf("Error checking comment owner: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking comment"})
		return
	}
	if authorizeOwner(ownerID, userID) != decisionAllowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized to edit this comment"})
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}

	var comment models.Comment
	query := `
		UPDATE comments
		SET content = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
		RETURNING id, content, post_id, created_by, created_at, updated_at
	`
	err = db.QueryRow(query, content, commentID).Scan(
		&comment.ID,
		&comment.Content,
		&comment.PostID,
		&comment.CreatedBy,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		log.Printf("Error updating comment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating comment"})
		return
	}

	c.JSON(http.StatusOK, comment)
}
