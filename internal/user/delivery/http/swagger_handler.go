package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// Register godoc
// @Summary Register a new user
// @Description Create a new user account with the user role
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{user_name=string,user_name_description=string,password=string} true "User registration data"
// @Success 201 {object} domain.User
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/register [post]
func (h *UserHandler) RegisterDoc() {}

// Login godoc
// @Summary User login
// @Description Authenticate user and get JWT token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{user_name=string,password=string} true "Login credentials"
// @Success 200 {object} command.LoginResponse
// @Failure 401 {object} object{error=string}
// @Router /auth/login [post]
func (h *UserHandler) LoginDoc() {}

// GetProfile godoc
// @Summary Get current user profile
// @Description Get the authenticated user with resolved favorites
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.User
// @Failure 401 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /users/me [get]
func (h *UserHandler) GetProfileDoc() {}

// CreateUser godoc
// @Summary Create user (admin)
// @Description Admin endpoint to create a user with a given role
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{user_name=string,user_name_description=string,password=string,role=string} true "User data"
// @Success 201 {object} domain.User
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /users [post]
func (h *UserHandler) CreateUserDoc() {}

// ListUsers godoc
// @Summary List users
// @Description List users with their favorites. With a bearer token, is_favorite marks users the caller has favorited.
// @Tags Users
// @Produce json
// @Param limit query int false "Page size (default 50, max 200)"
// @Param offset query int false "Offset"
// @Success 200 {array} domain.User
// @Router /users [get]
func (h *UserHandler) ListUsersDoc() {}

// GetUser godoc
// @Summary Get user by ID
// @Description Get a user with resolved favorites
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} domain.User
// @Failure 404 {object} object{error=string}
// @Router /users/{id} [get]
func (h *UserHandler) GetUserDoc() {}

// UpdateUser godoc
// @Summary Update user
// @Description Rename a user (self or admin)
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body object{user_name=string,user_name_description=string} true "Update data"
// @Success 200 {object} domain.User
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUserDoc() {}

// DeleteUser godoc
// @Summary Delete user
// @Description Delete a user (self or admin). Under the strict policy users owning favorites cannot be deleted.
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 422 {object} object{error=string}
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUserDoc() {}

// ChangeRole godoc
// @Summary Change user role (admin)
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body object{role=string} true "Role (user|admin)"
// @Success 200 {object} domain.User
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Router /users/{id}/role [put]
func (h *UserHandler) ChangeRoleDoc() {}

// AddFavorite godoc
// @Summary Add favorite
// @Description Owner id favorites user favoriteId
// @Tags Favorites
// @Security BearerAuth
// @Produce json
// @Param id path int true "Owner ID"
// @Param favoriteId path int true "Target user ID"
// @Success 201 {object} domain.Favorite
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Failure 422 {object} object{error=string}
// @Router /users/{id}/favorite/{favoriteId} [post]
func (h *UserHandler) AddFavoriteDoc() {}

// ListFavorites godoc
// @Summary List favorites
// @Description Favorites of a user in insertion order, targets resolved
// @Tags Favorites
// @Security BearerAuth
// @Produce json
// @Param id path int true "Owner ID"
// @Success 200 {array} domain.Favorite
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /users/{id}/favorites [get]
func (h *UserHandler) ListFavoritesDoc() {}

// RemoveFavorite godoc
// @Summary Remove favorite
// @Tags Favorites
// @Security BearerAuth
// @Produce json
// @Param id path int true "Owner ID"
// @Param favoriteId path int true "Target user ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /users/{id}/favorite/{favoriteId} [delete]
func (h *UserHandler) RemoveFavoriteDoc() {}

// GetStats godoc
// @Summary Directory statistics (admin)
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} query.UserStats
// @Failure 403 {object} object{error=string}
// @Router /admin/stats [get]
func (h *UserHandler) GetStatsDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string}
// @Failure 503 {object} object{status=string,error=string}
// @Router /health [get]
func HealthCheckDoc() {}
