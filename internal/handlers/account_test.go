package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func TestMonitorDeleteUserByEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("MONITORING_API_KEY", "ops-key")
	_, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.
		ExpectQuery(regexp.QuoteMeta(`SELECT id FROM users WHERE lower(email) = $1`)).
		WithArgs("b@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	mock.ExpectBegin()
	mock.
		ExpectQuery(regexp.QuoteMeta(`SELECT id FROM users WHERE id = $1`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.
		ExpectQuery(regexp.QuoteMeta(`SELECT id FROM posts WHERE created_by = $1`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10).AddRow(11))
	mock.
		ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM comments WHERE post_id = ANY($1) AND created_by <> $2`)).
		WithArgs(sqlmock.AnyArg(), 5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.
		ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM comments WHERE created_by = $1`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.
		ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM post_likes WHERE user_id = $1`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.
		ExpectExec(regexp.QuoteMeta(`DELETE FROM users WHERE id = $1`)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.DELETE("/api/monitor/users", MonitorDeleteUserByEmail)

	req := httptest.NewRequest(http.MethodDelete, "/api/monitor/users?email=B@x.com", nil)
	req.Header.Set("X-Monitoring-Key", "ops-key")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	expectHTTP200(t, resp.Code)

	var out struct {
		Summary deleteUserSummary `json:"summary"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if out.Summary.DeletedPosts != 2 || out.Summary.OrphanedComments != 3 {
		t.Fatalf("unexpected summary: %+v", out.Summary)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestMonitorEndpointsRejectBadKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("MONITORING_API_KEY", "ops-key")
	_, _, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.DELETE("/api/monitor/users", MonitorDeleteUserByEmail)

	req := httptest.NewRequest(http.MethodDelete, "/api/monitor/users?email=b@x.com", nil)
	req.Header.Set("X-Monitoring-Key", "wrong")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	mustStatus(t, resp.Code, http.StatusUnauthorized)
}
