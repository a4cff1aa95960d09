package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"boardcore/application/services"
	domaincfg "boardcore/domain/config"
	"boardcore/infrastructure/cache"
	"boardcore/infrastructure/config"
	"boardcore/infrastructure/persistence/memory"
	"boardcore/pkg/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{
		Environment: "test",
		JWTSecret:   testSecret,
		JWTIssuer:   "boardcore",
		EnableCORS:  false,
	}
	boardService := services.NewBoardService(
		memory.NewBoardRepository(),
		cache.NewMemoryCache(),
		nil,
		domaincfg.DefaultDomainConfig(),
		zap.NewNop(),
	)
	return NewRouter(boardService, cfg, zap.NewNop()).Setup()
}

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"iss": "boardcore",
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp common.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "response data is not an object: %s", rec.Body.String())
	return data
}

func TestRouter_HealthIsPublic(t *testing.T) {
	handler := newTestServer(t)
	rec := doJSON(t, handler, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RequiresAuth(t *testing.T) {
	handler := newTestServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/boards", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/boards", "Bearer not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_BoardLifecycle(t *testing.T) {
	handler := newTestServer(t)
	token := bearerToken(t, "user123")

	// Create
	rec := doJSON(t, handler, http.MethodPost, "/api/boards", token, map[string]string{
		"title":       "Weekly Notes",
		"description": "scratchpad",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeData(t, rec)
	boardID, _ := created["id"].(string)
	require.NotEmpty(t, boardID)

	// Get
	rec = doJSON(t, handler, http.MethodGet, "/api/boards/"+boardID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decodeData(t, rec)
	assert.Equal(t, "Weekly Notes", fetched["title"])

	// Update with full document
	rec = doJSON(t, handler, http.MethodPut, "/api/boards/"+boardID, token, map[string]interface{}{
		"title":       "Renamed",
		"description": "scratchpad",
		"cards":       []interface{}{},
		"edges":       []interface{}{},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeData(t, rec)
	assert.Equal(t, "Renamed", updated["title"])

	// Delete
	rec = doJSON(t, handler, http.MethodDelete, "/api/boards/"+boardID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/boards/"+boardID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_UpdateRejectsUnknownFields(t *testing.T) {
	handler := newTestServer(t)
	token := bearerToken(t, "user123")

	rec := doJSON(t, handler, http.MethodPost, "/api/boards", token, map[string]string{"title": "B"})
	require.Equal(t, http.StatusCreated, rec.Code)
	boardID, _ := decodeData(t, rec)["id"].(string)

	rec = doJSON(t, handler, http.MethodPut, "/api/boards/"+boardID, token, map[string]interface{}{
		"title":      "B",
		"cards":      []interface{}{},
		"edges":      []interface{}{},
		"unexpected": true,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_CreateValidation(t *testing.T) {
	handler := newTestServer(t)
	token := bearerToken(t, "user123")

	rec := doJSON(t, handler, http.MethodPost, "/api/boards", token, map[string]string{"title": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_BoardsAreOwnerScoped(t *testing.T) {
	handler := newTestServer(t)
	owner := bearerToken(t, "user123")
	other := bearerToken(t, "intruder")

	rec := doJSON(t, handler, http.MethodPost, "/api/boards", owner, map[string]string{"title": "Private"})
	require.Equal(t, http.StatusCreated, rec.Code)
	boardID, _ := decodeData(t, rec)["id"].(string)

	rec = doJSON(t, handler, http.MethodGet, "/api/boards/"+boardID, other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, handler, http.MethodDelete, "/api/boards/"+boardID, other, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
