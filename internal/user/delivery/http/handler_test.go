package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/user-favorites/internal/user/access"
	"github.com/tair/user-favorites/internal/user/domain"
	"github.com/tair/user-favorites/internal/user/repository"
	"github.com/tair/user-favorites/internal/user/usecase"
	"github.com/tair/user-favorites/internal/user/usecase/command"
	"github.com/tair/user-favorites/internal/user/usecase/query"
	"github.com/tair/user-favorites/pkg/auth"
)

type testServer struct {
	router *mux.Router
	store  *repository.MemoryStore
	tokens *auth.TokenManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := repository.NewMemoryStore()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	guard := access.NewGuard()
	publisher := domain.NopPublisher{}
	users, favorites := store.Users(), store.Favorites()

	commands := usecase.NewCommands(
		command.NewRegisterUserHandler(users),
		command.NewCreateUserHandler(users, guard),
		command.NewLoginUserHandler(users, tokens),
		command.NewUpdateUserHandler(users, guard),
		command.NewDeleteUserHandler(store, guard, domain.DeletePolicyStrict, publisher),
		command.NewChangeRoleHandler(users, guard),
		command.NewAddFavoriteHandler(users, favorites, guard, publisher),
		command.NewRemoveFavoriteHandler(favorites, guard, publisher),
	)
	queries := usecase.NewQueries(
		query.NewGetUserHandler(users, favorites),
		query.NewListUsersHandler(users, favorites),
		query.NewListFavoritesHandler(users, favorites, guard),
		query.NewGetStatsHandler(users, favorites, guard),
	)

	router := mux.NewRouter()
	RegisterMiddlewares(router, nil)
	NewUserHandler(commands, queries, NewAuthenticator(tokens), NewMetrics(prometheus.NewRegistry())).RegisterRoutes(router)
	RegisterHealthCheck(router, nil)

	return &testServer{router: router, store: store, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// register creates a user through the API and returns its id and token
func (s *testServer) register(t *testing.T, name string) (uint, string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth/register", "", map[string]string{"user_name": name, "password": "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"user_name": name, "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.User.ID, resp.Token
}

func TestFavoritesFlow(t *testing.T) {
	s := newTestServer(t)
	aliceID, aliceToken := s.register(t, "alice")
	bobID, bobToken := s.register(t, "bob")

	addPath := fmt.Sprintf("/users/%d/favorite/%d", aliceID, bobID)

	rec := s.do(t, http.MethodPost, addPath, aliceToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, addPath, aliceToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, fmt.Sprintf("/users/%d/favorite/%d", aliceID, aliceID), aliceToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodPost, fmt.Sprintf("/users/%d/favorite/999", aliceID), aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, addPath, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, addPath, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/users/%d/favorites", aliceID), aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var favorites []domain.Favorite
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &favorites))
	require.Len(t, favorites, 1)
	assert.Equal(t, bobID, favorites[0].TargetID)
	assert.Equal(t, "bob", favorites[0].Target.UserName)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/users/%d/favorites", bobID), bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/users", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var users []domain.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 2)
	assert.False(t, users[0].IsFavorite)
	assert.True(t, users[1].IsFavorite)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/users/%d", aliceID), aliceToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodDelete, addPath, aliceToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodDelete, addPath, aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/users/%d", aliceID), aliceToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProfileAndAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	aliceID, aliceToken := s.register(t, "alice")

	rec := s.do(t, http.MethodGet, "/users/me", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me domain.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, aliceID, me.ID)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = s.do(t, http.MethodGet, "/admin/stats", aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminToken, err := s.tokens.GenerateToken(1000, "root", domain.RoleAdmin)
	require.NoError(t, err)

	rec = s.do(t, http.MethodGet, "/admin/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total_users":1,"admin_count":0,"user_count":1,"total_favorites":0}`, rec.Body.String())

	rec = s.do(t, http.MethodPut, fmt.Sprintf("/users/%d/role", aliceID), adminToken, map[string]string{"role": "admin"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPut, fmt.Sprintf("/users/%d", aliceID), aliceToken, map[string]string{"user_name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/users/abc", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthenticator_RejectsBadTokens(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/users/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// optional auth still refuses a token that does not verify
	rec = s.do(t, http.MethodGet, "/users", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/users", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthCheck(nil)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	HealthCheck(func(context.Context) error { return errors.New("db down") })(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.NewUserNotFoundError(1), http.StatusNotFound},
		{domain.NewError(domain.KindConflict, "dup"), http.StatusConflict},
		{domain.NewError(domain.KindInvalidOperation, "self"), http.StatusUnprocessableEntity},
		{domain.NewError(domain.KindForbidden, "no"), http.StatusForbidden},
		{domain.StoreError("find user", errors.New("conn reset")), http.StatusServiceUnavailable},
		{domain.StoreError("find user", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{domain.NewValidationError("bad"), http.StatusBadRequest},
		{domain.NewError(domain.KindUnauthenticated, "who"), http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestRespondDomainError_HidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)

	respondDomainError(rec, req, domain.StoreError("list users", errors.New("dial tcp 10.0.0.1:5432: refused")))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"list users failed"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	respondDomainError(rec, req, &domain.Error{
		Kind:    domain.KindConflict,
		Message: "user 1 already favorited user 2",
		Cause:   &pq.Error{Code: "23505", Message: `duplicate key value violates unique constraint "idx_favorites_owner_target"`},
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"user 1 already favorited user 2"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	respondDomainError(rec, req, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	limiter := NewRateLimiter(client, 1, time.Minute)
	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	assert.Equal(t, "192.0.2.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientIP(req))
}
