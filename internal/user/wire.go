//go:build wireinject
// +build wireinject

package user

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/user-favorites/internal/user/access"
	"github.com/tair/user-favorites/internal/user/delivery/grpc"
	"github.com/tair/user-favorites/internal/user/delivery/http"
	"github.com/tair/user-favorites/internal/user/domain"
	"github.com/tair/user-favorites/internal/user/usecase"
	"github.com/tair/user-favorites/internal/user/usecase/command"
	"github.com/tair/user-favorites/internal/user/usecase/query"
	"github.com/tair/user-favorites/pkg/auth"
)

// Wire sets
var CommandHandlerSet = wire.NewSet(
	command.NewRegisterUserHandler,
	command.NewCreateUserHandler,
	command.NewLoginUserHandler,
	command.NewUpdateUserHandler,
	command.NewDeleteUserHandler,
	command.NewChangeRoleHandler,
	command.NewAddFavoriteHandler,
	command.NewRemoveFavoriteHandler,
	usecase.NewCommands,
)

var QueryHandlerSet = wire.NewSet(
	query.NewGetUserHandler,
	query.NewListUsersHandler,
	query.NewListFavoritesHandler,
	query.NewGetStatsHandler,
	usecase.NewQueries,
)

var AllHandlersSet = wire.NewSet(
	access.NewGuard,
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(
	users domain.UserRepository,
	favorites domain.FavoriteRepository,
	tx domain.Transactor,
	tokens *auth.TokenManager,
	publisher domain.EventPublisher,
	policy domain.DeletePolicy,
	reg prometheus.Registerer,
) *http.UserHandler {
	wire.Build(
		AllHandlersSet,
		http.NewAuthenticator,
		http.NewMetrics,
		http.NewUserHandler,
	)
	return nil
}

// InitializeGRPCServer initializes gRPC server with all dependencies
func InitializeGRPCServer(
	users domain.UserRepository,
	favorites domain.FavoriteRepository,
	tx domain.Transactor,
	tokens *auth.TokenManager,
	publisher domain.EventPublisher,
	policy domain.DeletePolicy,
) *grpc.FavoriteServer {
	wire.Build(
		AllHandlersSet,
		grpc.NewFavoriteServer,
	)
	return nil
}
