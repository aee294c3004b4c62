package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// FavoriteServiceClient is the client API for the favorites service
type FavoriteServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewFavoriteServiceClient creates a client on cc
func NewFavoriteServiceClient(cc grpc.ClientConnInterface) *FavoriteServiceClient {
	return &FavoriteServiceClient{cc: cc}
}

func (c *FavoriteServiceClient) invoke(ctx context.Context, method string, in map[string]interface{}, opts ...grpc.CallOption) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// AddFavorite calls FavoriteService.AddFavorite
func (c *FavoriteServiceClient) AddFavorite(ctx context.Context, ownerID, targetID uint, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodAddFavorite, map[string]interface{}{"owner_id": float64(ownerID), "target_id": float64(targetID)}, opts...)
}

// ListFavorites calls FavoriteService.ListFavorites
func (c *FavoriteServiceClient) ListFavorites(ctx context.Context, ownerID uint, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodListFavorites, map[string]interface{}{"owner_id": float64(ownerID)}, opts...)
}

// RemoveFavorite calls FavoriteService.RemoveFavorite
func (c *FavoriteServiceClient) RemoveFavorite(ctx context.Context, ownerID, targetID uint, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodRemoveFavorite, map[string]interface{}{"owner_id": float64(ownerID), "target_id": float64(targetID)}, opts...)
}

// GetUser calls FavoriteService.GetUser
func (c *FavoriteServiceClient) GetUser(ctx context.Context, id uint, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGetUser, map[string]interface{}{"id": float64(id)}, opts...)
}
