package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/medqueue/clinic-auth/internal/core/domain"
	"github.com/medqueue/clinic-auth/internal/core/service"
	redisstore "github.com/medqueue/clinic-auth/internal/infrastructure/db/redis"
	"github.com/medqueue/clinic-auth/internal/infrastructure/hashing"
	"github.com/medqueue/clinic-auth/internal/infrastructure/queue"
	"github.com/medqueue/clinic-auth/pkg/password"
)

type loginFlow struct {
	resolver *service.PrincipalResolver
	sessions *service.SessionManager
}

func newLoginFlow(mt *mtest.T) *loginFlow {
	pool := queue.NewPool(1, 4, zerolog.Nop())
	pool.Start(context.Background())
	mt.Cleanup(pool.Stop)

	mr := miniredis.RunT(mt.T)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	mt.Cleanup(func() { _ = rdb.Close() })

	admins := NewAdminRepository(mt.DB)
	users := NewUserRepository(mt.DB)
	return &loginFlow{
		resolver: service.NewPrincipalResolver(admins, users, hashing.NewPooledHasher(pool), zerolog.Nop()),
		sessions: service.NewSessionManager(
			redisstore.NewSessionStore(rdb),
			service.NewDirectory(admins, users),
			service.SessionOptions{TTL: time.Hour},
			zerolog.Nop(),
		),
	}
}

func storedHash(mt *mtest.T, secret string) string {
	h, err := password.Hash(secret)
	if err != nil {
		mt.Fatalf("hash: %v", err)
	}
	return h
}

func touched() bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1})
}

// A principal decoded from a stored document must verify and then restore
// with its stored id, kind and active flag.
func TestStoredPrincipalLogsInAndRestores(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	adminNS := "test." + administratorsCollection
	userNS := "test." + usersCollection

	mt.Run("user", func(mt *mtest.T) {
		f := newLoginFlow(mt)
		doc := bson.D{
			{Key: "_id", Value: int64(5)},
			{Key: "email", Value: "doc@clinic.test"},
			{Key: "password_hash", Value: storedHash(mt, "s3cret")},
			{Key: "is_active", Value: true},
			{Key: "role", Value: "doctor"},
		}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, adminNS, mtest.FirstBatch), // admin miss
			mtest.CreateCursorResponse(0, userNS, mtest.FirstBatch, doc),
			touched(),
			mtest.CreateCursorResponse(0, userNS, mtest.FirstBatch, doc), // restore
		)
		ctx := context.Background()

		p, err := f.resolver.Resolve(ctx, "doc@clinic.test", "s3cret")
		if err != nil || p == nil {
			mt.Fatalf("Resolve = (%v, %v), want user", p, err)
		}
		f.resolver.Wait()

		sid, err := f.sessions.Create(ctx, p)
		if err != nil {
			mt.Fatalf("Create: %v", err)
		}
		got, err := f.sessions.Restore(ctx, sid)
		if err != nil {
			mt.Fatalf("Restore: %v", err)
		}
		u, ok := got.(*domain.UserPrincipal)
		if !ok || u.ID != 5 || !u.IsActive || u.Role != domain.RoleDoctor {
			mt.Fatalf("unexpected restored principal %#v", got)
		}
	})

	mt.Run("admin", func(mt *mtest.T) {
		f := newLoginFlow(mt)
		doc := bson.D{
			{Key: "_id", Value: int64(1)},
			{Key: "email", Value: "root@clinic.test"},
			{Key: "password_hash", Value: storedHash(mt, "s3cret")},
			{Key: "is_active", Value: true},
		}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, adminNS, mtest.FirstBatch, doc),
			touched(),
			mtest.CreateCursorResponse(0, adminNS, mtest.FirstBatch, doc),
		)
		ctx := context.Background()

		p, err := f.resolver.Resolve(ctx, "root@clinic.test", "s3cret")
		if err != nil || p == nil || p.Kind() != domain.KindAdmin {
			mt.Fatalf("Resolve = (%v, %v), want admin", p, err)
		}
		f.resolver.Wait()

		sid, _ := f.sessions.Create(ctx, p)
		got, err := f.sessions.Restore(ctx, sid)
		if err != nil || got == nil || got.PrincipalID() != 1 || !got.Active() {
			mt.Fatalf("Restore = (%#v, %v), want active admin 1", got, err)
		}
	})

	mt.Run("wrong secret", func(mt *mtest.T) {
		f := newLoginFlow(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, adminNS, mtest.FirstBatch),
			mtest.CreateCursorResponse(0, userNS, mtest.FirstBatch, bson.D{
				{Key: "_id", Value: int64(5)},
				{Key: "email", Value: "doc@clinic.test"},
				{Key: "password_hash", Value: storedHash(mt, "s3cret")},
				{Key: "is_active", Value: true},
				{Key: "role", Value: "doctor"},
			}),
		)

		p, err := f.resolver.Resolve(context.Background(), "doc@clinic.test", "guess")
		if err != nil || p != nil {
			mt.Fatalf("Resolve = (%v, %v), want (nil, nil)", p, err)
		}
	})
}
