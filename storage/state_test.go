package storage

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemDBBasicOperations(t *testing.T) {
	db := NewMemDB()
	defer db.Close()

	key := []byte("vault/ab/total")
	require.NoError(t, db.Put(key, []byte("42")))

	ok, err := db.Has(key)
	require.NoError(t, err)
	require.True(t, ok)

	value, err := db.Get(key)
	require.NoError(t, err)
	require.Equal(t, []byte("42"), value)

	require.NoError(t, db.Delete(key))
	_, err = db.Get(key)
	require.ErrorIs(t, err, ErrKeyNotFound)

	ok, err = db.Has(key)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemDBCopiesValues(t *testing.T) {
	db := NewMemDB()
	defer db.Close()

	value := []byte("mutable")
	require.NoError(t, db.Put([]byte("k"), value))
	value[0] = 'X'

	stored, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("mutable"), stored)

	// Mutating the returned slice must not corrupt the store either.
	stored[0] = 'Y'
	again, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("mutable"), again)
}

func TestStateRoundTrips(t *testing.T) {
	st := NewState(NewMemDB())

	type allowance struct {
		Amount *big.Int `json:"amount"`
		Expiry uint64   `json:"expiry"`
	}

	key := []byte("vault/ab/allowance/cd/ef")
	require.NoError(t, st.KVPut(key, allowance{Amount: big.NewInt(123456), Expiry: 17280}))

	var decoded allowance
	ok, err := st.KVGet(key, &decoded)
	require.NoError(t, err)
	require.True(t, ok)
	require.Zero(t, decoded.Amount.Cmp(big.NewInt(123456)))
	require.Equal(t, uint64(17280), decoded.Expiry)

	has, err := st.KVHas(key)
	require.NoError(t, err)
	require.True(t, has)

	require.NoError(t, st.KVDelete(key))
	ok, err = st.KVGet(key, &decoded)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStateMissingKeyIsNotAnError(t *testing.T) {
	st := NewState(NewMemDB())

	var out string
	ok, err := st.KVGet([]byte("absent"), &out)
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, out)

	// Deleting an absent key is a no-op.
	require.NoError(t, st.KVDelete([]byte("absent")))
}

func TestWithRollbackDiscardsWritesOnError(t *testing.T) {
	st := NewState(NewMemDB())
	require.NoError(t, st.KVPut([]byte("kept"), "before"))

	boom := errors.New("boom")
	err := st.WithRollback(func() error {
		require.NoError(t, st.KVPut([]byte("kept"), "after"))
		require.NoError(t, st.KVPut([]byte("fresh"), "value"))
		require.NoError(t, st.KVDelete([]byte("kept")))
		return boom
	})
	require.ErrorIs(t, err, boom)

	var out string
	ok, err := st.KVGet([]byte("kept"), &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "before", out)

	ok, err = st.KVHas([]byte("fresh"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestWithRollbackCommitsOnSuccess(t *testing.T) {
	st := NewState(NewMemDB())
	require.NoError(t, st.WithRollback(func() error {
		return st.KVPut([]byte("k"), "v")
	}))

	var out string
	ok, err := st.KVGet([]byte("k"), &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", out)
}

func TestWithRollbackNestedScopes(t *testing.T) {
	st := NewState(NewMemDB())

	// An inner failure unwinds only the inner writes.
	err := st.WithRollback(func() error {
		if err := st.KVPut([]byte("outer"), 1); err != nil {
			return err
		}
		inner := st.WithRollback(func() error {
			if err := st.KVPut([]byte("inner"), 2); err != nil {
				return err
			}
			return errors.New("inner failure")
		})
		require.Error(t, inner)
		return nil
	})
	require.NoError(t, err)

	ok, err := st.KVHas([]byte("outer"))
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = st.KVHas([]byte("inner"))
	require.NoError(t, err)
	require.False(t, ok)

	// An outer failure unwinds inner scopes that had committed.
	err = st.WithRollback(func() error {
		require.NoError(t, st.WithRollback(func() error {
			return st.KVPut([]byte("nested"), 3)
		}))
		return errors.New("outer failure")
	})
	require.Error(t, err)
	ok, err = st.KVHas([]byte("nested"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLevelDBRoundTrip(t *testing.T) {
	db, err := NewLevelDB(t.TempDir())
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	value, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), value)

	_, err = db.Get([]byte("missing"))
	require.ErrorIs(t, err, ErrKeyNotFound)
}
