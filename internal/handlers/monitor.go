package handlers

import (
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/adam-tarek99/blog-api/internal/database"
	"github.com/adam-tarek99/blog-api/internal/monitoring"

	"github.com/gin-gonic/gin"
)

var monitoringService *monitoring.Service

// SetMonitoringService registers runtime monitoring service for handlers.
func SetMonitoringService(service *monitoring.Service) {
	monitoringService = service
}

func getMonitoringService() *monitoring.Service {
	if monitoringService == nil {
		monitoringService = monitoring.NewService(time.Now())
	}
	return monitoringService
}

func checkMonitoringToken(c *gin.Context) bool {
	expected := strings.TrimSpace(os.Getenv("MONITORING_API_KEY"))
	if expected == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Monitoring API is disabled"})
		return false
	}

	provided := strings.TrimSpace(c.GetHeader("X-Monitoring-Key"))
	if provided == "" || provided != expected {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid monitoring key"})
		return false
	}
	return true
}

func MonitorStatus(c *gin.Context) {
	if !checkMonitoringToken(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": getMonitoringService().StatusText()})
}

func MonitorConnections(c *gin.Context) {
	if !checkMonitoringToken(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": getMonitoringService().ConnectionsText()})
}

func MonitorRuntime(c *gin.Context) {
	if !checkMonitoringToken(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": getMonitoringService().RuntimeText()})
}

func MonitorUsers(c *gin.Context) {
	if !checkMonitoringToken(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": getMonitoringService().UsersText()})
}

func MonitorAll(c *gin.Context) {
	if !checkMonitoringToken(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": getMonitoringService().AllText()})
}

func MonitorSnapshot(c *gin.Context) {
	if !checkMonitoringToken(c) {
		return
	}
	c.JSON(http.StatusOK, getMonitoringService().Snapshot())
}

func MonitorUsersList(c *gin.Context) {
	if !checkMonitoringToken(c) {
		return
	}

	page := parsePositiveInt(c.Query("page"), 1)
	limit := parsePositiveInt(c.Query("limit"), 8)
	if limit > 50 {
		limit = 50
	}
	offset := (page - 1) * limit

	var totalUsers int
	if err := database.DB.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&totalUsers); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users count"})
		return
	}

	rows, err := database.DB.Query(`
		SELECT
			u.id,
			u.username,
			u.email,
			u.created_at,
			COUNT(DISTINCT p.id) AS posts_count,
			COUNT(DISTINCT cm.id) AS comments_count
		FROM users u
		LEFT JOIN posts p ON p.created_by = u.id
		LEFT JOIN comments cm ON cm.created_by = u.id
		GROUP BY u.id, u.username, u.email, u.created_at
		ORDER BY u.created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users list"})
		return
	}
	defer rows.Close()

	type monitorUserItem struct {
		ID            int       `json:"id"`
		Username      string    `json:"username"`
		Email         string    `json:"email"`
		PostsCount    int64     `json:"posts_count"`
		CommentsCount int64     `json:"comments_count"`
		CreatedAt     time.Time `json:"created_at"`
	}

	users := make([]monitorUserItem, 0)
	for rows.Next() {
		var item monitorUserItem
		if scanErr := rows.Scan(&item.ID, &item.Username, &item.Email, &item.CreatedAt, &item.PostsCount, &item.CommentsCount); scanErr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan users list"})
			return
		}
		users = append(users, item)
	}

	totalPages := 0
	if totalUsers > 0 {
		totalPages = int(math.Ceil(float64(totalUsers) / float64(limit)))
	}

	c.JSON(http.StatusOK, gin.H{
		"page":        page,
		"limit":       limit,
		"total_users": totalUsers,
		"total_pages": totalPages,
		"users":       users,
	})
}

func parsePositiveInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
