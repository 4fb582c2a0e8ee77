package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"sellerhub/internal/collections"
)

func TestRespondMembershipErrorMalformedConditionIsBadRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondMembershipError(c, "GET /test", &collections.InvalidConditionError{Index: 2, Reason: "unknown condition type"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid condition, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "\"conditionIndex\":2") {
		t.Fatalf("expected condition index in body, got %s", w.Body.String())
	}
}

func TestRespondMembershipErrorPersistenceFailureIsServerError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondMembershipError(c, "GET /test", errors.New("context deadline exceeded"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for persistence failure, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "deadline") {
		t.Fatalf("driver error text leaked to the client: %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "db error") {
		t.Fatalf("expected generic db error message, got %s", w.Body.String())
	}
}
