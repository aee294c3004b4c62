package grpc

import (
	"context"
	"errors"
	"math"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tair/user-favorites/internal/user/domain"
	"github.com/tair/user-favorites/internal/user/usecase"
	"github.com/tair/user-favorites/internal/user/usecase/command"
	"github.com/tair/user-favorites/internal/user/usecase/query"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "favorites.v1.FavoriteService"

// Full method names
const (
	MethodAddFavorite    = "/" + ServiceName + "/AddFavorite"
	MethodListFavorites  = "/" + ServiceName + "/ListFavorites"
	MethodRemoveFavorite = "/" + ServiceName + "/RemoveFavorite"
	MethodGetUser        = "/" + ServiceName + "/GetUser"
)

// FavoriteServiceServer is the server API for the favorites service.
// Requests and responses are google.protobuf.Struct messages using the
// same snake_case field names as the HTTP API.
type FavoriteServiceServer interface {
	AddFavorite(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListFavorites(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveFavorite(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// FavoriteServer implements FavoriteServiceServer on top of the use cases
type FavoriteServer struct {
	commands *usecase.Commands
	queries  *usecase.Queries
}

// NewFavoriteServer creates a new gRPC favorites server
func NewFavoriteServer(commands *usecase.Commands, queries *usecase.Queries) *FavoriteServer {
	return &FavoriteServer{commands: commands, queries: queries}
}

// AddFavorite handles {owner_id, target_id}
func (s *FavoriteServer) AddFavorite(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ownerID, targetID, err := pairFields(req)
	if err != nil {
		return nil, err
	}

	identity, _ := domain.IdentityFromContext(ctx)
	favorite, err := s.commands.AddFavorite.Handle(ctx, command.AddFavoriteCommand{
		Identity: identity,
		OwnerID:  ownerID,
		TargetID: targetID,
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return structpb.NewStruct(map[string]interface{}{"favorite": favoriteToMap(favorite)})
}

// ListFavorites handles {owner_id}
func (s *FavoriteServer) ListFavorites(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ownerID, err := idField(req, "owner_id")
	if err != nil {
		return nil, err
	}

	identity, _ := domain.IdentityFromContext(ctx)
	favorites, err := s.queries.ListFavorites.Handle(ctx, query.ListFavoritesQuery{
		Identity: identity,
		OwnerID:  ownerID,
	})
	if err != nil {
		return nil, toStatus(err)
	}

	items := make([]interface{}, len(favorites))
	for i := range favorites {
		items[i] = favoriteToMap(&favorites[i])
	}

	return structpb.NewStruct(map[string]interface{}{
		"favorites": items,
		"total":     len(items),
	})
}

// RemoveFavorite handles {owner_id, target_id}
func (s *FavoriteServer) RemoveFavorite(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ownerID, targetID, err := pairFields(req)
	if err != nil {
		return nil, err
	}

	identity, _ := domain.IdentityFromContext(ctx)
	if err := s.commands.RemoveFavorite.Handle(ctx, command.RemoveFavoriteCommand{
		Identity: identity,
		OwnerID:  ownerID,
		TargetID: targetID,
	}); err != nil {
		return nil, toStatus(err)
	}

	return structpb.NewStruct(map[string]interface{}{"message": "Favorite removed successfully"})
}

// GetUser handles {id}
func (s *FavoriteServer) GetUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := idField(req, "id")
	if err != nil {
		return nil, err
	}

	user, err := s.queries.GetUser.Handle(ctx, query.GetUserQuery{ID: id})
	if err != nil {
		return nil, toStatus(err)
	}

	return structpb.NewStruct(map[string]interface{}{"user": userToMap(user)})
}

// RegisterFavoriteServiceServer registers srv on s
func RegisterFavoriteServiceServer(s grpc.ServiceRegistrar, srv FavoriteServiceServer) {
	s.RegisterService(&favoriteServiceDesc, srv)
}

var favoriteServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FavoriteServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("AddFavorite", FavoriteServiceServer.AddFavorite),
		unaryMethod("ListFavorites", FavoriteServiceServer.ListFavorites),
		unaryMethod("RemoveFavorite", FavoriteServiceServer.RemoveFavorite),
		unaryMethod("GetUser", FavoriteServiceServer.GetUser),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "favorites/v1/favorites.proto",
}

type unaryCall func(FavoriteServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name string, call unaryCall) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(FavoriteServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(FavoriteServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// toStatus maps a use case error to a gRPC status. Internal details of
// store failures stay in the logs.
func toStatus(err error) error {
	message := err.Error()
	var e *domain.Error
	if errors.As(err, &e) && e.Message != "" {
		message = e.Message
	}

	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return status.Error(codes.NotFound, message)
	case domain.KindConflict:
		return status.Error(codes.AlreadyExists, message)
	case domain.KindInvalidOperation:
		return status.Error(codes.FailedPrecondition, message)
	case domain.KindForbidden:
		return status.Error(codes.PermissionDenied, message)
	case domain.KindUnavailable:
		return status.Error(codes.Unavailable, message)
	case domain.KindTimeout:
		return status.Error(codes.DeadlineExceeded, message)
	case domain.KindInvalid:
		return status.Error(codes.InvalidArgument, message)
	case domain.KindUnauthenticated:
		return status.Error(codes.Unauthenticated, message)
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func pairFields(req *structpb.Struct) (uint, uint, error) {
	ownerID, err := idField(req, "owner_id")
	if err != nil {
		return 0, 0, err
	}
	targetID, err := idField(req, "target_id")
	if err != nil {
		return 0, 0, err
	}
	return ownerID, targetID, nil
}

// idField reads a positive integer id from a Struct number field
func idField(req *structpb.Struct, name string) (uint, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue < 1 || n.NumberValue > math.MaxUint32 || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a positive integer", name)
	}
	return uint(n.NumberValue), nil
}

func userToMap(user *domain.User) map[string]interface{} {
	m := map[string]interface{}{
		"id":                    float64(user.ID),
		"user_name":             user.UserName,
		"user_name_description": user.UserNameDescription,
		"role":                  user.Role,
		"created_at":            user.CreatedAt.Format(time.RFC3339),
		"updated_at":            user.UpdatedAt.Format(time.RFC3339),
	}
	if len(user.Favorites) > 0 {
		favorites := make([]interface{}, len(user.Favorites))
		for i := range user.Favorites {
			favorites[i] = favoriteToMap(&user.Favorites[i])
		}
		m["favorites"] = favorites
	}
	return m
}

func favoriteToMap(favorite *domain.Favorite) map[string]interface{} {
	m := map[string]interface{}{
		"id":         float64(favorite.ID),
		"owner_id":   float64(favorite.OwnerID),
		"target_id":  float64(favorite.TargetID),
		"created_at": favorite.CreatedAt.Format(time.RFC3339),
	}
	if favorite.Target != nil {
		m["target"] = map[string]interface{}{
			"id":        float64(favorite.Target.ID),
			"user_name": favorite.Target.UserName,
			"role":      favorite.Target.Role,
		}
	}
	return m
}
