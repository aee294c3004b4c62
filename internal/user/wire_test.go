package user

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tair/user-favorites/internal/user/domain"
	"github.com/tair/user-favorites/internal/user/repository"
	"github.com/tair/user-favorites/pkg/auth"
)

func TestInitializeHTTPHandler(t *testing.T) {
	store := repository.NewMemoryStore()
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	handler := InitializeHTTPHandler(store.Users(), store.Favorites(), store, tokens,
		domain.NopPublisher{}, domain.DeletePolicyCascade, prometheus.NewRegistry())
	require.NotNil(t, handler)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	body := bytes.NewBufferString(`{"user_name":"alice","password":"secret1"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register", body))
	assert.Equal(t, http.StatusCreated, rec.Code)

	n, err := store.Users().Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestInitializeGRPCServer(t *testing.T) {
	store := repository.NewMemoryStore()
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	server := InitializeGRPCServer(store.Users(), store.Favorites(), store, tokens,
		domain.NopPublisher{}, domain.DeletePolicyStrict)
	require.NotNil(t, server)

	u := &domain.User{UserName: "alice", Password: "hash", Role: domain.RoleUser}
	require.NoError(t, store.Users().Create(context.Background(), u))

	req, err := structpb.NewStruct(map[string]interface{}{"id": float64(u.ID)})
	require.NoError(t, err)
	resp, err := server.GetUser(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.GetFields()["user"].GetStructValue().GetFields()["user_name"].GetStringValue())
}
