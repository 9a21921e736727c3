package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sirenecole/admin-console/internal/core/domain"
	"github.com/sirenecole/admin-console/internal/core/ports"
)

// RoleRepository stores roles with their permissions embedded, and the
// permission catalogue in its own collection.
type RoleRepository struct {
	roles       *mongo.Collection
	permissions *mongo.Collection
	users       *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{
		roles:       db.Collection(collectionRoles),
		permissions: db.Collection(collectionPermissions),
		users:       db.Collection(collectionUsers),
	}
}

func (r *RoleRepository) ListRoles(ctx context.Context) ([]domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.roles.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "slug", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer cur.Close(ctx)

	roles := []domain.Role{}
	if err := cur.All(ctx, &roles); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}
	for i := range roles {
		n, err := r.users.CountDocuments(ctx, bson.M{"role_slug": roles[i].Slug})
		if err != nil {
			return nil, fmt.Errorf("count role users: %w", err)
		}
		roles[i].UsersCount = int(n)
	}
	return roles, nil
}

func (r *RoleRepository) FindRole(ctx context.Context, id string) (*domain.Role, error) {
	return r.findRole(ctx, bson.M{"_id": id})
}

func (r *RoleRepository) FindRoleBySlug(ctx context.Context, slug string) (*domain.Role, error) {
	return r.findRole(ctx, bson.M{"slug": slug})
}

func (r *RoleRepository) findRole(ctx context.Context, filter bson.M) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var role domain.Role
	if err := r.roles.FindOne(ctx, filter).Decode(&role); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &role, nil
}

func (r *RoleRepository) CreateRole(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *role
	if doc.ID == "" {
		doc.ID = primitive.NewObjectID().Hex()
	}
	if doc.Permissions == nil {
		doc.Permissions = []domain.Permission{}
	}
	if _, err := r.roles.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrRoleExists
		}
		return nil, fmt.Errorf("insert role: %w", err)
	}
	return &doc, nil
}

func (r *RoleRepository) UpdateRole(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.roles.ReplaceOne(ctx, bson.M{"_id": role.ID}, role)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrRoleExists
		}
		return nil, fmt.Errorf("update role: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrRoleNotFound
	}
	out := *role
	return &out, nil
}

func (r *RoleRepository) DeleteRole(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.roles.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}

func (r *RoleRepository) ListPermissions(ctx context.Context) ([]domain.Permission, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.permissions.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "slug", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer cur.Close(ctx)

	perms := []domain.Permission{}
	if err := cur.All(ctx, &perms); err != nil {
		return nil, fmt.Errorf("decode permissions: %w", err)
	}
	return perms, nil
}

func (r *RoleRepository) CreatePermission(ctx context.Context, p *domain.Permission) (*domain.Permission, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *p
	if doc.ID == "" {
		doc.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.permissions.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: permission %s exists", domain.ErrInvalidInput, p.Slug)
		}
		return nil, fmt.Errorf("insert permission: %w", err)
	}
	return &doc, nil
}

var _ ports.RoleRepository = (*RoleRepository)(nil)
