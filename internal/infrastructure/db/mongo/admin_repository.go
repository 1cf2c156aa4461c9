package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/medqueue/clinic-auth/internal/core/domain"
	"github.com/medqueue/clinic-auth/internal/core/ports"
)

// AdminRepository implements ports.AdministratorStore using MongoDB.
type AdminRepository struct {
	coll *mongo.Collection
}

// NewAdminRepository creates a new AdminRepository.
func NewAdminRepository(db *mongo.Database) ports.AdministratorStore {
	return &AdminRepository{coll: db.Collection(administratorsCollection)}
}

type adminDoc struct {
	IdentityDoc `bson:",inline"`
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminPrincipal, error) {
	return r.get(ctx, byEmail(email))
}

func (r *AdminRepository) GetByID(ctx context.Context, id int64) (*domain.AdminPrincipal, error) {
	return r.get(ctx, byID(id))
}

func (r *AdminRepository) TouchLastLogin(ctx context.Context, id int64, at time.Time) error {
	return touchLastLogin(ctx, r.coll, id, at)
}

func (r *AdminRepository) get(ctx context.Context, q query) (*domain.AdminPrincipal, error) {
	var doc adminDoc
	if err := findOne(ctx, r.coll, q, &doc); err != nil {
		return nil, err
	}
	return &domain.AdminPrincipal{Identity: doc.toDomain()}, nil
}
