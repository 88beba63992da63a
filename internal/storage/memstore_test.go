package storage

import (
	"testing"
	"time"

	"github.com/shopkart/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeededStore() *MemStore {
	s := NewMemStore(time.Hour, 5000)
	s.SeedProducts(DefaultProducts())
	return s
}

func TestSearchProducts(t *testing.T) {
	s := newSeededStore()

	t.Run("matches name case-insensitively", func(t *testing.T) {
		got := s.SearchProducts("iphone")
		require.Len(t, got, 1)
		assert.Equal(t, "iPhone XR", got[0].Name)
	})

	t.Run("matches category", func(t *testing.T) {
		got := s.SearchProducts("sports")
		assert.Len(t, got, 2)
	})

	t.Run("empty query matches all", func(t *testing.T) {
		assert.Len(t, s.SearchProducts(""), len(DefaultProducts()))
	})

	t.Run("no match returns empty", func(t *testing.T) {
		assert.Empty(t, s.SearchProducts("zzzzz"))
	})
}

func TestRegisterAndLogin(t *testing.T) {
	s := newSeededStore()

	require.NoError(t, s.Register("crio", "secret123"))

	t.Run("duplicate username rejected", func(t *testing.T) {
		assert.ErrorIs(t, s.Register("crio", "other"), ErrUserExists)
	})

	t.Run("unknown username rejected", func(t *testing.T) {
		_, err := s.Login("nobody", "secret123")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		_, err := s.Login("crio", "wrong")
		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("login issues resolvable token", func(t *testing.T) {
		sess, err := s.Login("crio", "secret123")
		require.NoError(t, err)
		assert.NotEmpty(t, sess.Token)
		assert.Equal(t, "crio", sess.Username)
		assert.Equal(t, float64(5000), sess.Balance)

		username, err := s.ResolveToken(sess.Token)
		require.NoError(t, err)
		assert.Equal(t, "crio", username)
	})

	t.Run("unknown token rejected", func(t *testing.T) {
		_, err := s.ResolveToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestResolveToken_Expired(t *testing.T) {
	s := NewMemStore(time.Nanosecond, 5000)
	require.NoError(t, s.Register("crio", "secret123"))

	sess, err := s.Login("crio", "secret123")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = s.ResolveToken(sess.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUpsertCart(t *testing.T) {
	s := newSeededStore()

	t.Run("unknown product rejected", func(t *testing.T) {
		_, err := s.UpsertCart("crio", "missing", 1)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("add then update keeps one record", func(t *testing.T) {
		records, err := s.UpsertCart("crio", "v4sLtEcMpzabRyfx", 1)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 1, records[0].Qty)

		records, err = s.UpsertCart("crio", "v4sLtEcMpzabRyfx", 4)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 4, records[0].Qty)
	})

	t.Run("insertion order is preserved", func(t *testing.T) {
		_, err := s.UpsertCart("crio", "upLK9JbQ4rMhTwt4", 2)
		require.NoError(t, err)
		records, err := s.UpsertCart("crio", "PmInA797xJhMIPti", 1)
		require.NoError(t, err)

		require.Len(t, records, 3)
		assert.Equal(t, "v4sLtEcMpzabRyfx", records[0].ProductID)
		assert.Equal(t, "upLK9JbQ4rMhTwt4", records[1].ProductID)
		assert.Equal(t, "PmInA797xJhMIPti", records[2].ProductID)
	})

	t.Run("zero quantity deletes the record", func(t *testing.T) {
		records, err := s.UpsertCart("crio", "upLK9JbQ4rMhTwt4", 0)
		require.NoError(t, err)
		require.Len(t, records, 2)
		for _, r := range records {
			assert.NotEqual(t, "upLK9JbQ4rMhTwt4", r.ProductID)
		}
	})

	t.Run("removing an absent record is a no-op", func(t *testing.T) {
		records, err := s.UpsertCart("crio", "upLK9JbQ4rMhTwt4", 0)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("carts are per user", func(t *testing.T) {
		assert.Empty(t, s.Cart("someone-else"))
	})
}

func TestCart_ReturnsCopy(t *testing.T) {
	s := newSeededStore()
	_, err := s.UpsertCart("crio", "v4sLtEcMpzabRyfx", 1)
	require.NoError(t, err)

	records := s.Cart("crio")
	records[0] = domain.CartRecord{ProductID: "tampered", Qty: 99}

	fresh := s.Cart("crio")
	assert.Equal(t, "v4sLtEcMpzabRyfx", fresh[0].ProductID)
}
