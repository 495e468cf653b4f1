package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/adam-tarek99/blog-api/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func TestCreateCommentSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.
		ExpectQuery(regexp.QuoteMeta(`INSERT INTO comments (content, post_id, created_by) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`)).
		WithArgs("Nice post", 12, 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(4, now, now))

	router := gin.New()
	router.POST("/api/comments", withTestUser(models.User{ID: 3}), CreateComment)

	resp := postJSON(t, router, "/api/comments", map[string]any{
		"content": "Nice post",
		"postId":  12,
	})
	mustStatus(t, resp.Code, http.StatusCreated)

	var out models.Comment
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if out.PostID != 12 || out.CreatedBy != 3 {
		t.Fatalf("unexpected comment: %+v", out)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestCreateCommentMissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, _, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.POST("/api/comments", withTestUser(models.User{ID: 3}), CreateComment)

	resp := postJSON(t, router, "/api/comments", map[string]any{"content": "Nice post"})
	mustStatus(t, resp.Code, http.StatusBadRequest)
}

func TestGetCommentsByPostNewestFirst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.
		ExpectQuery(`SELECT c.id, c.content, c.post_id`).
		WithArgs(12).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "content", "post_id", "created_by", "created_at", "updated_at", "username", "email"}).
				AddRow(5, "newer", 12, 3, now, now, "a", "a@x.com").
				AddRow(4, "older", 12, 8, now.Add(-time.Hour), now.Add(-time.Hour), "b", "b@x.com"),
		)

	router := gin.New()
	router.GET("/api/comments/:postId", GetCommentsByPost)

	req := httptest.NewRequest(http.MethodGet, "/api/comments/12", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	expectHTTP200(t, resp.Code)

	var out []models.Comment
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(out))
	}
	if out[0].Content != "newer" {
		t.Fatalf("expected newest comment first, got %q", out[0].Content)
	}
	if out[0].Creator == nil || out[0].Creator.Username != "a" {
		t.Fatalf("expected populated creator, got %+v", out[0].Creator)
	}
}

func TestUpdateCommentForbiddenForNonOwner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.
		ExpectQuery(regexp.QuoteMeta(`SELECT created_by FROM comments WHERE id = $1`)).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"created_by"}).AddRow(8))

	router := gin.New()
	router.PUT("/api/comments/:id", withTestUser(models.User{ID: 3}), UpdateComment)

	payload, _ := json.Marshal(map[string]string{"content": "edited"})
	req := httptest.NewRequest(http.MethodPut, "/api/comments/4", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	mustStatus(t, resp.Code, http.StatusForbidden)
}

func TestUpdateCommentNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.
		ExpectQuery(regexp.QuoteMeta(`SELECT created_by FROM comments WHERE id = $1`)).
		WithArgs(44).
		WillReturnError(sql.ErrNoRows)

	router := gin.New()
	router.PUT("/api/comments/:id", withTestUser(models.User{ID: 3}), UpdateComment)

	payload, _ := json.Marshal(map[string]string{"content": "edited"})
	req := httptest.NewRequest(http.MethodPut, "/api/comments/44", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	mustStatus(t, resp.Code, http.StatusNotFound)
}

func TestUpdateCommentByOwner(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	mock.
		ExpectQuery(regexp.QuoteMeta(`SELECT created_by FROM comments WHERE id = $1`)).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"created_by"}).AddRow(3))
	mock.
		ExpectQuery(`UPDATE comments`).
		WithArgs("edited", 4).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "content", "post_id", "created_by", "created_at", "updated_at"}).
				AddRow(4, "edited", 12, 3, now, now),
		)

	router := gin.New()
	router.PUT("/api/comments/:id", withTestUser(models.User{ID: 3}), UpdateComment)

	payload, _ := json.Marshal(map[string]string{"content": "edited"})
	req := httptest.NewRequest(http.MethodPut, "/api/comments/4", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	expectHTTP200(t, resp.Code)

	var out models.Comment
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if out.Content != "edited" {
		t.Fatalf("expected edited content, got %q", out.Content)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
