package usecase

import (
	"github.com/tair/user-favorites/internal/user/usecase/command"
	"github.com/tair/user-favorites/internal/user/usecase/query"
)

// Commands holds all command handlers
type Commands struct {
	Register       *command.RegisterUserHandler
	Create         *command.CreateUserHandler
	Login          *command.LoginUserHandler
	Update         *command.UpdateUserHandler
	Delete         *command.DeleteUserHandler
	ChangeRole     *command.ChangeRoleHandler
	AddFavorite    *command.AddFavoriteHandler
	RemoveFavorite *command.RemoveFavoriteHandler
}

// Queries holds all query handlers
type Queries struct {
	GetUser       *query.GetUserHandler
	ListUsers     *query.ListUsersHandler
	ListFavorites *query.ListFavoritesHandler
	Stats         *query.GetStatsHandler
}

// NewCommands groups the command handlers
func NewCommands(
	register *command.RegisterUserHandler,
	create *command.CreateUserHandler,
	login *command.LoginUserHandler,
	update *command.UpdateUserHandler,
	del *command.DeleteUserHandler,
	changeRole *command.ChangeRoleHandler,
	addFavorite *command.AddFavoriteHandler,
	removeFavorite *command.RemoveFavoriteHandler,
) *Commands {
	return &Commands{
		Register:       register,
		Create:         create,
		Login:          login,
		Update:         update,
		Delete:         del,
		ChangeRole:     changeRole,
		AddFavorite:    addFavorite,
		RemoveFavorite: removeFavorite,
	}
}

// NewQueries groups the query handlers
func NewQueries(
	getUser *query.GetUserHandler,
	listUsers *query.ListUsersHandler,
	listFavorites *query.ListFavoritesHandler,
	stats *query.GetStatsHandler,
) *Queries {
	return &Queries{
		GetUser:       getUser,
		ListUsers:     listUsers,
		ListFavorites: listFavorites,
		Stats:         stats,
	}
}
