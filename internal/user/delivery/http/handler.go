package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/tair/user-favorites/internal/user/domain"
	"github.com/tair/user-favorites/internal/user/usecase"
	"github.com/tair/user-favorites/internal/user/usecase/command"
	"github.com/tair/user-favorites/internal/user/usecase/query"
)

// HealthChecker reports whether the backing store is reachable
type HealthChecker func(ctx context.Context) error

// UserHandler handles HTTP requests for users and favorites
type UserHandler struct {
	commands *usecase.Commands
	queries  *usecase.Queries
	auth     *Authenticator
	metrics  *Metrics
}

// NewUserHandler creates a new user handler
func NewUserHandler(commands *usecase.Commands, queries *usecase.Queries, auth *Authenticator, metrics *Metrics) *UserHandler {
	return &UserHandler{
		commands: commands,
		queries:  queries,
		auth:     auth,
		metrics:  metrics,
	}
}

// Register handles POST /auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserName            string `json:"user_name"`
		UserNameDescription string `json:"user_name_description"`
		Password            string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}

	user, err := h.commands.Register.Handle(r.Context(), command.RegisterUserCommand{
		UserName:            req.UserName,
		UserNameDescription: req.UserNameDescription,
		Password:            req.Password,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// Login handles POST /auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserName string `json:"user_name"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}

	response, err := h.commands.Login.Handle(r.Context(), command.LoginUserCommand{
		UserName: req.UserName,
		Password: req.Password,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, response)
}

// GetProfile handles GET /users/me
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())

	user, err := h.queries.GetUser.Handle(r.Context(), query.GetUserQuery{ID: identity.UserID})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// CreateUser handles POST /users (admin)
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserName            string `json:"user_name"`
		UserNameDescription string `json:"user_name_description"`
		Password            string `json:"password"`
		Role                string `json:"role"`
	}
	if !decode(w, r, &req) {
		return
	}

	identity, _ := domain.IdentityFromContext(r.Context())
	user, err := h.commands.Create.Handle(r.Context(), command.CreateUserCommand{
		Identity:            identity,
		UserName:            req.UserName,
		UserNameDescription: req.UserNameDescription,
		Password:            req.Password,
		Role:                req.Role,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	identity, _ := domain.IdentityFromContext(r.Context())

	users, err := h.queries.ListUsers.Handle(r.Context(), query.ListUsersQuery{
		Identity: identity,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, users)
}

// GetUser handles GET /users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.queries.GetUser.Handle(r.Context(), query.GetUserQuery{ID: id})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// UpdateUser handles PUT /users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		UserName            string  `json:"user_name"`
		UserNameDescription *string `json:"user_name_description"`
	}
	if !decode(w, r, &req) {
		return
	}

	identity, _ := domain.IdentityFromContext(r.Context())
	user, err := h.commands.Update.Handle(r.Context(), command.UpdateUserCommand{
		Identity:            identity,
		ID:                  id,
		UserName:            req.UserName,
		UserNameDescription: req.UserNameDescription,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// DeleteUser handles DELETE /users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	identity, _ := domain.IdentityFromContext(r.Context())
	if err := h.commands.Delete.Handle(r.Context(), command.DeleteUserCommand{Identity: identity, ID: id}); err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// ChangeRole handles PUT /users/{id}/role (admin)
func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if !decode(w, r, &req) {
		return
	}

	identity, _ := domain.IdentityFromContext(r.Context())
	user, err := h.commands.ChangeRole.Handle(r.Context(), command.ChangeRoleCommand{
		Identity: identity,
		UserID:   id,
		Role:     req.Role,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// AddFavorite handles POST /users/{id}/favorite/{favoriteId}
func (h *UserHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	targetID, ok := pathID(w, r, "favoriteId")
	if !ok {
		return
	}

	identity, _ := domain.IdentityFromContext(r.Context())
	favorite, err := h.commands.AddFavorite.Handle(r.Context(), command.AddFavoriteCommand{
		Identity: identity,
		OwnerID:  ownerID,
		TargetID: targetID,
	})
	h.metrics.observeFavorite("add", err)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, favorite)
}

// ListFavorites handles GET /users/{id}/favorites
func (h *UserHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	identity, _ := domain.IdentityFromContext(r.Context())
	favorites, err := h.queries.ListFavorites.Handle(r.Context(), query.ListFavoritesQuery{
		Identity: identity,
		OwnerID:  ownerID,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, favorites)
}

// RemoveFavorite handles DELETE /users/{id}/favorite/{favoriteId}
func (h *UserHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	targetID, ok := pathID(w, r, "favoriteId")
	if !ok {
		return
	}

	identity, _ := domain.IdentityFromContext(r.Context())
	err := h.commands.RemoveFavorite.Handle(r.Context(), command.RemoveFavoriteCommand{
		Identity: identity,
		OwnerID:  ownerID,
		TargetID: targetID,
	})
	h.metrics.observeFavorite("remove", err)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Favorite removed successfully"})
}

// GetStats handles GET /admin/stats
func (h *UserHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	identity, _ := domain.IdentityFromContext(r.Context())

	stats, err := h.queries.Stats.Handle(r.Context(), query.GetStatsQuery{Identity: identity})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	h.metrics.users.Set(float64(stats.TotalUsers))
	h.metrics.favorites.Set(float64(stats.TotalFavorites))
	respondJSON(w, http.StatusOK, stats)
}

// HealthCheck handles GET /health
func HealthCheck(check HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if check != nil {
			if err := check(ctx); err != nil {
				respondJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
				return
			}
		}

		respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}
}

// RegisterRoutes registers all user routes
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	route := func(path string, handler http.HandlerFunc, method string) {
		router.HandleFunc(path, h.metrics.Middleware(path, handler)).Methods(method)
	}

	// Public routes
	route("/auth/register", h.Register, http.MethodPost)
	route("/auth/login", h.Login, http.MethodPost)
	route("/users", h.auth.Optional(h.ListUsers), http.MethodGet)
	route("/users/{id:[0-9]+}", h.GetUser, http.MethodGet)

	// Authenticated routes; ownership and roles are checked by the use cases
	route("/users/me", h.auth.Require(h.GetProfile), http.MethodGet)
	route("/users", h.auth.Require(h.CreateUser), http.MethodPost)
	route("/users/{id:[0-9]+}", h.auth.Require(h.UpdateUser), http.MethodPut)
	route("/users/{id:[0-9]+}", h.auth.Require(h.DeleteUser), http.MethodDelete)
	route("/users/{id:[0-9]+}/role", h.auth.Require(h.ChangeRole), http.MethodPut)
	route("/users/{id:[0-9]+}/favorite/{favoriteId:[0-9]+}", h.auth.Require(h.AddFavorite), http.MethodPost)
	route("/users/{id:[0-9]+}/favorites", h.auth.Require(h.ListFavorites), http.MethodGet)
	route("/users/{id:[0-9]+}/favorite/{favoriteId:[0-9]+}", h.auth.Require(h.RemoveFavorite), http.MethodDelete)
	route("/admin/stats", h.auth.Require(h.GetStats), http.MethodGet)
}

// RegisterHealthCheck registers health check endpoint
func RegisterHealthCheck(router *mux.Router, check HealthChecker) {
	router.HandleFunc("/health", HealthCheck(check)).Methods(http.MethodGet)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 32)
	if err != nil || id == 0 {
		respondError(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
