package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medqueue/clinic-auth/internal/core/domain"
)

// emailCollation makes email matching case-insensitive. The unique index is
// built with the same collation so lookups can use it.
var emailCollation = &options.Collation{Locale: "en", Strength: 2}

// IdentityDoc is the stored shape shared by both principal collections. It
// is exported so the bson codec decodes it when inlined.
type IdentityDoc struct {
	ID           int64      `bson:"_id"`
	Email        string     `bson:"email"`
	PasswordHash string     `bson:"password_hash"`
	IsActive     bool       `bson:"is_active"`
	LastLogin    *time.Time `bson:"last_login,omitempty"`
}

func (d IdentityDoc) toDomain() domain.Identity {
	var last *time.Time
	if d.LastLogin != nil {
		t := d.LastLogin.UTC()
		last = &t
	}
	return domain.Identity{
		ID:           d.ID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		IsActive:     d.IsActive,
		LastLogin:    last,
	}
}

// query is a single-document lookup.
type query struct {
	filter bson.M
	opts   *options.FindOneOptions
}

func byEmail(email string) query {
	return query{filter: bson.M{"email": email}, opts: options.FindOne().SetCollation(emailCollation)}
}

func byID(id int64) query {
	return query{filter: bson.M{"_id": id}, opts: options.FindOne()}
}

// findOne decodes the first document matching q into out.
func findOne(ctx context.Context, coll *mongo.Collection, q query, out any) error {
	err := coll.FindOne(ctx, q.filter, q.opts).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrPrincipalNotFound
	}
	if err != nil {
		return fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	return nil
}

// touchLastLogin sets last_login on a single document without touching any
// other field.
func touchLastLogin(ctx context.Context, coll *mongo.Collection, id int64, at time.Time) error {
	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"last_login": at.UTC()}},
	)
	if err != nil {
		return fmt.Errorf("touch %s last_login: %w", coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPrincipalNotFound
	}
	return nil
}
