package fakeapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/umlgen/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, b *Backend, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	b.ServeHTTP(rec, req)
	return rec
}

func TestBackend_LoginAndMe(t *testing.T) {
	b := NewBackend()
	b.AddUser("ann@example.com", "secret1", false, models.PlanPro)

	rec := do(t, b, http.MethodPost, "/auth/login", "", models.Credentials{Email: "ann@example.com", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail":"Invalid credentials"}`, rec.Body.String())

	rec = do(t, b, http.MethodPost, "/auth/login", "", models.Credentials{Email: "ann@example.com", Password: "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	var auth models.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &auth))
	assert.NotEmpty(t, auth.AccessToken)
	assert.Equal(t, "bearer", auth.TokenType)

	rec = do(t, b, http.MethodGet, "/auth/me", auth.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"subscription_plan":"pro"`)

	b.RevokeAll()
	rec = do(t, b, http.MethodGet, "/auth/me", auth.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBackend_RegisterDuplicate(t *testing.T) {
	b := NewBackend()
	creds := models.Credentials{Email: "bob@example.com", Password: "secret1"}

	rec := do(t, b, http.MethodPost, "/auth/register", "", creds)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, b, http.MethodPost, "/auth/register", "", creds)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already registered")
}

func TestBackend_DiagramsAreScopedToOwner(t *testing.T) {
	b := NewBackend()
	ann := b.AddUser("ann@example.com", "pw1234", false, "")
	bob := b.AddUser("bob@example.com", "pw1234", false, "")
	d := b.AddDiagram(models.Diagram{UserID: ann.ID, Title: "Shop", DiagramType: models.DiagramClass, MermaidCode: "classDiagram"})

	rec := do(t, b, http.MethodGet, "/diagrams/1", b.IssueToken(bob.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	annToken := b.IssueToken(ann.ID)
	rec = do(t, b, http.MethodGet, "/diagrams/?page=1&page_size=20", annToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list models.DiagramList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Diagrams, 1)
	assert.Equal(t, d.ID, list.Diagrams[0].ID)

	rec = do(t, b, http.MethodDelete, "/diagrams/1", annToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, b.Diagrams())
}

func TestBackend_GenerateValidation(t *testing.T) {
	b := NewBackend()
	u := b.AddUser("ann@example.com", "pw1234", false, "")
	tok := b.IssueToken(u.ID)

	rec := do(t, b, http.MethodPost, "/diagrams/generate", tok, models.GenerateRequest{Prompt: "short"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	seq := models.DiagramSequence
	rec = do(t, b, http.MethodPost, "/diagrams/generate", tok, models.GenerateRequest{Prompt: "checkout flow for a shop", DiagramType: &seq})
	require.Equal(t, http.StatusOK, rec.Code)
	var res models.GenerateResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.True(t, strings.HasPrefix(res.MermaidCode, "sequenceDiagram"))
}

func TestBackend_AdminRequiresAdmin(t *testing.T) {
	b := NewBackend()
	user := b.AddUser("ann@example.com", "pw1234", false, "")
	admin := b.AddUser("root@example.com", "pw1234", true, models.PlanPro)

	rec := do(t, b, http.MethodGet, "/admin/stats", b.IssueToken(user.ID), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, b, http.MethodGet, "/admin/stats", b.IssueToken(admin.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats models.AdminStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 1, stats.ProUsers)
}

func TestBackend_FailAndRecord(t *testing.T) {
	b := NewBackend()
	b.Fail(http.MethodGet, "/admin/stats", http.StatusServiceUnavailable, "down", 1)

	rec := do(t, b, http.MethodGet, "/admin/stats", "abc", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(t, b, http.MethodGet, "/admin/stats", "abc", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	reqs := b.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "Bearer abc", reqs[0].Authorization)
}

func TestBackend_FailForeverUntilCleared(t *testing.T) {
	b := NewBackend()
	b.Fail(http.MethodGet, "/auth/me", http.StatusInternalServerError, "boom", -1)

	for i := 0; i < 3; i++ {
		rec := do(t, b, http.MethodGet, "/auth/me", "abc", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	}

	b.ClearFailures()
	rec := do(t, b, http.MethodGet, "/auth/me", "abc", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
