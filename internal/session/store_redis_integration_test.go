//go:build integration

package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"medledger/internal/domain"
	"medledger/internal/session"
	"medledger/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *session.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.store = session.NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func makeSession() domain.Session {
	return domain.Session{
		ID:        uuid.NewString(),
		Wallet:    "0x90f8bf6a479f320ead074411a4b0e7944ea8c9c1",
		Role:      domain.RoleDoctor,
		Username:  "dr-gregory",
		Email:     "gregory@example.com",
		Device:    "Chrome on Mac OS X",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func (s *RedisStoreSuite) TestSaveAndFind() {
	ctx := context.Background()
	sess := makeSession()

	s.Require().NoError(s.store.Save(ctx, sess, time.Hour))

	got, err := s.store.Find(ctx, sess.ID)
	s.Require().NoError(err)
	s.Equal(sess.ID, got.ID)
	s.Equal(sess.Wallet, got.Wallet)
	s.Equal(sess.Role, got.Role)
	s.Equal(sess.Device, got.Device)
}

func (s *RedisStoreSuite) TestFindMissing() {
	_, err := s.store.Find(context.Background(), "no-such-session")
	s.ErrorIs(err, session.ErrNotFound)
}

func (s *RedisStoreSuite) TestTTLExpiry() {
	ctx := context.Background()
	sess := makeSession()

	s.Require().NoError(s.store.Save(ctx, sess, 200*time.Millisecond))

	_, err := s.store.Find(ctx, sess.ID)
	s.Require().NoError(err)

	s.Eventually(func() bool {
		_, err := s.store.Find(ctx, sess.ID)
		return err != nil
	}, 2*time.Second, 50*time.Millisecond, "session should expire with its TTL")
}

func (s *RedisStoreSuite) TestDelete() {
	ctx := context.Background()
	sess := makeSession()

	s.Require().NoError(s.store.Save(ctx, sess, time.Hour))
	s.Require().NoError(s.store.Delete(ctx, sess.ID))

	_, err := s.store.Find(ctx, sess.ID)
	s.ErrorIs(err, session.ErrNotFound)

	// Deleting an absent session is a no-op.
	s.NoError(s.store.Delete(ctx, sess.ID))
}
