package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/user-favorites/internal/user/domain"
)

var tracer = otel.Tracer("user-repository")

// TracingUserRepository wraps a UserRepository with tracing
type TracingUserRepository struct {
	next domain.UserRepository
}

// NewTracingUserRepository creates a new repository with tracing
func NewTracingUserRepository(next domain.UserRepository) *TracingUserRepository {
	return &TracingUserRepository{next: next}
}

// Create with tracing
func (r *TracingUserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, span := tracer.Start(ctx, "repository.users.Create",
		trace.WithAttributes(attribute.String("user.user_name", user.UserName)),
	)
	defer span.End()

	if err := r.next.Create(ctx, user); err != nil {
		recordError(span, err)
		return err
	}

	span.SetAttributes(attribute.Int("user.id", int(user.ID)))
	return nil
}

// FindByID with tracing
func (r *TracingUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "repository.users.FindByID",
		trace.WithAttributes(attribute.Int("user.id", int(id))),
	)
	defer span.End()

	user, err := r.next.FindByID(ctx, id)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("user.user_name", user.UserName))
	return user, nil
}

// FindByUserName with tracing
func (r *TracingUserRepository) FindByUserName(ctx context.Context, userName string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "repository.users.FindByUserName",
		trace.WithAttributes(attribute.String("user.user_name", userName)),
	)
	defer span.End()

	user, err := r.next.FindByUserName(ctx, userName)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("user.id", int(user.ID)))
	return user, nil
}

// FindAll with tracing
func (r *TracingUserRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.User, error) {
	ctx, span := tracer.Start(ctx, "repository.users.FindAll",
		trace.WithAttributes(
			attribute.Int("query.limit", limit),
			attribute.Int("query.offset", offset),
		),
	)
	defer span.End()

	users, err := r.next.FindAll(ctx, limit, offset)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(users)))
	return users, nil
}

// Update with tracing
func (r *TracingUserRepository) Update(ctx context.Context, user *domain.User) error {
	ctx, span := tracer.Start(ctx, "repository.users.Update",
		trace.WithAttributes(attribute.Int("user.id", int(user.ID))),
	)
	defer span.End()

	if err := r.next.Update(ctx, user); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

// Delete with tracing
func (r *TracingUserRepository) Delete(ctx context.Context, id uint) error {
	ctx, span := tracer.Start(ctx, "repository.users.Delete",
		trace.WithAttributes(attribute.Int("user.id", int(id))),
	)
	defer span.End()

	if err := r.next.Delete(ctx, id); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

// Count with tracing
func (r *TracingUserRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.users.Count")
	defer span.End()

	count, err := r.next.Count(ctx)
	if err != nil {
		recordError(span, err)
		return 0, err
	}

	span.SetAttributes(attribute.Int64("result.count", count))
	return count, nil
}

// CountByRole with tracing
func (r *TracingUserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.users.CountByRole",
		trace.WithAttributes(attribute.String("user.role", role)),
	)
	defer span.End()

	count, err := r.next.CountByRole(ctx, role)
	if err != nil {
		recordError(span, err)
		return 0, err
	}

	span.SetAttributes(attribute.Int64("result.count", count))
	return count, nil
}

// TracingFavoriteRepository wraps a FavoriteRepository with tracing
type TracingFavoriteRepository struct {
	next domain.FavoriteRepository
}

// NewTracingFavoriteRepository creates a new repository with tracing
func NewTracingFavoriteRepository(next domain.FavoriteRepository) *TracingFavoriteRepository {
	return &TracingFavoriteRepository{next: next}
}

func pairAttributes(ownerID, targetID uint) trace.SpanStartOption {
	return trace.WithAttributes(
		attribute.Int("favorite.owner_id", int(ownerID)),
		attribute.Int("favorite.target_id", int(targetID)),
	)
}

// FindByPair with tracing
func (r *TracingFavoriteRepository) FindByPair(ctx context.Context, ownerID, targetID uint) (*domain.Favorite, error) {
	ctx, span := tracer.Start(ctx, "repository.favorites.FindByPair", pairAttributes(ownerID, targetID))
	defer span.End()

	favorite, err := r.next.FindByPair(ctx, ownerID, targetID)
	if err != nil {
		// absence is an expected answer for the duplicate pre-check
		if domain.KindOf(err) != domain.KindNotFound {
			recordError(span, err)
		}
		return nil, err
	}
	return favorite, nil
}

// FindByOwner with tracing
func (r *TracingFavoriteRepository) FindByOwner(ctx context.Context, ownerID uint) ([]domain.Favorite, error) {
	ctx, span := tracer.Start(ctx, "repository.favorites.FindByOwner",
		trace.WithAttributes(attribute.Int("favorite.owner_id", int(ownerID))),
	)
	defer span.End()

	favorites, err := r.next.FindByOwner(ctx, ownerID)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(favorites)))
	return favorites, nil
}

// Create with tracing
func (r *TracingFavoriteRepository) Create(ctx context.Context, favorite *domain.Favorite) error {
	ctx, span := tracer.Start(ctx, "repository.favorites.Create", pairAttributes(favorite.OwnerID, favorite.TargetID))
	defer span.End()

	if err := r.next.Create(ctx, favorite); err != nil {
		recordError(span, err)
		return err
	}

	span.SetAttributes(attribute.Int("favorite.id", int(favorite.ID)))
	return nil
}

// Delete with tracing
func (r *TracingFavoriteRepository) Delete(ctx context.Context, id uint) error {
	ctx, span := tracer.Start(ctx, "repository.favorites.Delete",
		trace.WithAttributes(attribute.Int("favorite.id", int(id))),
	)
	defer span.End()

	if err := r.next.Delete(ctx, id); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

// CountByOwner with tracing
func (r *TracingFavoriteRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.favorites.CountByOwner",
		trace.WithAttributes(attribute.Int("favorite.owner_id", int(ownerID))),
	)
	defer span.End()

	count, err := r.next.CountByOwner(ctx, ownerID)
	if err != nil {
		recordError(span, err)
		return 0, err
	}

	span.SetAttributes(attribute.Int64("result.count", count))
	return count, nil
}

// DeleteByTarget with tracing
func (r *TracingFavoriteRepository) DeleteByTarget(ctx context.Context, targetID uint) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.favorites.DeleteByTarget",
		trace.WithAttributes(attribute.Int("favorite.target_id", int(targetID))),
	)
	defer span.End()

	removed, err := r.next.DeleteByTarget(ctx, targetID)
	if err != nil {
		recordError(span, err)
		return 0, err
	}

	span.SetAttributes(attribute.Int64("result.removed", removed))
	return removed, nil
}

// DeleteByUser with tracing
func (r *TracingFavoriteRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.favorites.DeleteByUser",
		trace.WithAttributes(attribute.Int("user.id", int(userID))),
	)
	defer span.End()

	removed, err := r.next.DeleteByUser(ctx, userID)
	if err != nil {
		recordError(span, err)
		return 0, err
	}

	span.SetAttributes(attribute.Int64("result.removed", removed))
	return removed, nil
}

// Count with tracing
func (r *TracingFavoriteRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.favorites.Count")
	defer span.End()

	count, err := r.next.Count(ctx)
	if err != nil {
		recordError(span, err)
		return 0, err
	}

	span.SetAttributes(attribute.Int64("result.count", count))
	return count, nil
}

// TracingTransactor wraps a Transactor so the repositories bound to the
// transaction are traced too
type TracingTransactor struct {
	next domain.Transactor
}

// NewTracingTransactor creates a new transactor with tracing
func NewTracingTransactor(next domain.Transactor) *TracingTransactor {
	return &TracingTransactor{next: next}
}

// WithinTx with tracing
func (t *TracingTransactor) WithinTx(ctx context.Context, fn func(domain.UserRepository, domain.FavoriteRepository) error) error {
	ctx, span := tracer.Start(ctx, "repository.WithinTx")
	defer span.End()

	err := t.next.WithinTx(ctx, func(users domain.UserRepository, favorites domain.FavoriteRepository) error {
		return fn(NewTracingUserRepository(users), NewTracingFavoriteRepository(favorites))
	})
	if err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

// recordError adds error details to span
func recordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
