package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/medqueue/clinic-auth/internal/core/domain"
	"github.com/medqueue/clinic-auth/internal/core/ports"
)

// UserRepository implements ports.UserStore using MongoDB.
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *mongo.Database) ports.UserStore {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type userDoc struct {
	IdentityDoc `bson:",inline"`
	Role        string `bson:"role"`
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.UserPrincipal, error) {
	return r.get(ctx, byEmail(email))
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.UserPrincipal, error) {
	return r.get(ctx, byID(id))
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	return touchLastLogin(ctx, r.coll, id, at)
}

func (r *UserRepository) get(ctx context.Context, q query) (*domain.UserPrincipal, error) {
	var doc userDoc
	if err := findOne(ctx, r.coll, q, &doc); err != nil {
		return nil, err
	}
	// An unrecognised role decodes to RoleUnknown, which satisfies nothing.
	role, _ := domain.ParseRole(doc.Role)
	return &domain.UserPrincipal{Identity: doc.toDomain(), Role: role}, nil
}
