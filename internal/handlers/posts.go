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

const postWithCreatorQuery = `
	SELECT p.id, p.title, p.content, p.created_by, p.created_at, p.updated_at,
	       u.username, u.email,
	       (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id)::int AS likes_count
	FROM posts p
	JOIN users u ON u.id = p.created_by
`

type rowScanner interface {
	Scan(dest ...any) error
}

// presentField trims an optional request field and drops it when the caller
// sent only whitespace, returning nil so COALESCE keeps the stored value.
func presentField(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func scanPostWithCreator(scanner rowScanner) (models.Post, error) {
	var post models.Post
	var username, email string
	err := scanner.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.CreatedBy,
		&post.CreatedAt,
		&post.UpdatedAt,
		&username,
		&email,
		&post.LikesCount,
	)
	if err != nil {
		return post, err
	}
	post.Creator = &models.UserSummary{ID: post.CreatedBy, Username: username, Email: email}
	return post, nil
}

// CreatePost creates a new post owned by the caller.
func CreatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and content are required"})
		return
	}

	db := database.DB
	var post models.Post
	post.Title = title
	post.Content = content
	post.CreatedBy = userID

	query := `INSERT INTO posts (title, content, created_by) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`
	err := db.QueryRow(query, title, content, userID).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		log.Printf("Error creating post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating post"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully",
		"post":    post,
	})
}

// GetPosts returns all posts with their creators populated.
func GetPosts(c *gin.Context) {
	db := database.DB

	rows, err := db.Query(postWithCreatorQuery + ` ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		log.Printf("Error retrieving posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving posts"})
		return
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		post, scanErr := scanPostWithCreator(rows)
		if scanErr != nil {
			log.Printf("Error scanning post: %v", scanErr)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning post"})
			return
		}
		posts = append(posts, post)
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(posts),
		"posts": posts,
	})
}

// GetMyPosts returns the caller's posts only.
func GetMyPosts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	db := database.DB
	query := `
		SELECT p.id, p.title, p.content, p.created_by, p.created_at, p.updated_at,
		       (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id)::int AS likes_count
		FROM posts p
		WHERE p.created_by = $1
		ORDER BY p.created_at DESC, p.id DESC
	`

	rows, err := db.Query(query, userID)
	if err != nil {
		log.Printf("Error retrieving user posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving posts"})
		return
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		var post models.Post
		scanErr := rows.Scan(
			&post.ID,
			&post.Title,
			&post.Content,
			&post.CreatedBy,
			&post.CreatedAt,
			&post.UpdatedAt,
			&post.LikesCount,
		)
		if scanErr != nil {
			log.Printf("Error scanning post: %v", scanErr)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error scanning post"})
			return
		}
		posts = append(posts, post)
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(posts),
		"posts": posts,
	})
}

// GetPostByID returns a single post. Public, no authentication required.
func GetPostByID(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	db := database.DB
	post, err := scanPostWithCreator(db.QueryRow(postWithCreatorQuery+` WHERE p.id = $1`, postID))
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		log.Printf("Error retrieving post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// UpdatePost applies a partial update to a post owned by the caller.
func UpdatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	db := database.DB

	ownerID, err := fetchPostOwner(db, postID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		log.Printf("Error checking post owner: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking post"})
		return
	}
	if authorizeOwner(ownerID, userID) != decisionAllowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to edit this post"})
		return
	}

	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	// A blank value counts as not supplied, so a partial update can never
	// empty out a field that is required at creation time.
	title := presentField(req.Title)
	content := presentField(req.Content)

	var post models.Post
	query := `
		UPDATE posts
		SET
			title = COALESCE($1, title),
			content = COALESCE($2, content),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
		RETURNING id, title, content, created_by, created_at, updated_at
	`
	err = db.QueryRow(query, title, content, postID).Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.CreatedBy,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		log.Printf("Error updating post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post updated successfully",
		"post":    post,
	})
}

// DeletePost removes a post owned by the caller. Comments referencing the
// post are left in place.
func DeletePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	db := database.DB

	ownerID, err := fetchPostOwner(db, postID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		log.Printf("Error checking post owner: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking post"})
		return
	}
	if authorizeOwner(ownerID, userID) != decisionAllowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to delete this post"})
		return
	}

	if _, err := db.Exec(`DELETE FROM posts WHERE id = $1`, postID); err != nil {
		log.Printf("Error deleting post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

// ToggleLike flips the caller's membership in the post's likers set. Any
// authenticated user may like any post; ownership does not apply here.
func ToggleLike(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	db := database.DB

	if _, err := fetchPostOwner(db, postID); err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		log.Printf("Error checking post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error checking post"})
		return
	}

	result, err := db.Exec(`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		log.Printf("Error removing like: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error toggling like"})
		return
	}

	removed, err := result.RowsAffected()
	if err != nil {
		log.Printf("Error reading like result: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error toggling like"})
		return
	}

	liked := false
	if removed == 0 {
		_, err = db.Exec(
			`INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2) ON CONFLICT (post_id, user_id) DO NOTHING`,
			postID,
			userID,
		)
		if err != nil {
			log.Printf("Error adding like: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error toggling like"})
			return
		}
		liked = true
	}

	var likesCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&likesCount); err != nil {
		log.Printf("Error counting likes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error counting likes"})
		return
	}

	message := "Unliked"
	if liked {
		message = "Liked"
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    message,
		"likesCount": likesCount,
	})
}
