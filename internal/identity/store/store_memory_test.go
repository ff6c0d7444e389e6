package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medledger/internal/domain"
)

func profileFixture() domain.UserProfile {
	return domain.UserProfile{
		Email:        "alice@example.com",
		Username:     "alice",
		PasswordHash: "$2a$10$fixture",
		Wallet:       "0xAB5801A7D398351B8BE11C439E05C5B3259AEC9B",
		Role:         domain.RoleDoctor,
	}
}

func TestMemoryStore_CreateAndFind(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, profileFixture()))

	byEmail, err := s.FindByEmail(ctx, "ALICE@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDoctor, byEmail.Role)
	assert.Equal(t, "0xab5801a7d398351b8be11c439e05c5b3259aec9b", byEmail.Wallet, "wallet stored normalized")
	assert.False(t, byEmail.CreatedAt.IsZero())

	byWallet, err := s.FindByWallet(ctx, "0xab5801a7d398351b8be11c439e05c5b3259aec9b")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byWallet.Email)
}

func TestMemoryStore_DuplicateEmail(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, profileFixture()))

	second := profileFixture()
	second.Wallet = "0x0000000000000000000000000000000000000001"
	err := s.Create(ctx, second)

	dup, ok := AsDuplicate(err)
	require.True(t, ok)
	assert.Equal(t, DuplicateEmail, dup.Field)
}

func TestMemoryStore_DuplicateWallet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, profileFixture()))

	second := profileFixture()
	second.Email = "other@example.com"
	// Same wallet, different casing: still a collision.
	second.Wallet = "0xab5801a7d398351b8be11c439e05c5b3259aec9b"
	err := s.Create(ctx, second)

	dup, ok := AsDuplicate(err)
	require.True(t, ok)
	assert.Equal(t, DuplicateWallet, dup.Field)
}

func TestMemoryStore_FindMissing(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.FindByWallet(ctx, "0x0000000000000000000000000000000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

// Racing signups for the same wallet must resolve to exactly one winner; the
// store's own check is the serialization point.
func TestMemoryStore_ConcurrentCreateSameWallet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	const racers = 32

	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			p := profileFixture()
			p.Email = "racer" + string(rune('a'+idx%26)) + string(rune('a'+idx/26)) + "@example.com"
			errs[idx] = s.Create(ctx, p)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			_, ok := AsDuplicate(err)
			assert.True(t, ok)
		}
	}
	assert.Equal(t, 1, winners)
}
