// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()

	badgerStore, err := OpenBadger("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = badgerStore.Close() })

	return map[string]Store{
		"mem":    NewMemStore(),
		"badger": badgerStore,
	}
}

func TestStore_GetPutDelete(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get([]byte("missing"))
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Put([]byte("k"), []byte("v1")))
			v, err := s.Get([]byte("k"))
			require.NoError(t, err)
			assert.Equal(t, []byte("v1"), v)

			require.NoError(t, s.Put([]byte("k"), []byte("v2")))
			v, err = s.Get([]byte("k"))
			require.NoError(t, err)
			assert.Equal(t, []byte("v2"), v)

			require.NoError(t, s.Delete([]byte("k")))
			_, err = s.Get([]byte("k"))
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_ScanPrefixInOrder(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put([]byte("a/2"), []byte("two")))
			require.NoError(t, s.Put([]byte("a/1"), []byte("one")))
			require.NoError(t, s.Put([]byte("b/1"), []byte("other")))

			var keys []string
			err := s.Scan([]byte("a/"), func(key, value []byte) error {
				keys = append(keys, string(key)+"="+string(value))
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, []string{"a/1=one", "a/2=two"}, keys)
		})
	}
}

func TestMemStore_ReturnsCopies(t *testing.T) {
	s := NewMemStore()
	value := []byte("abc")
	require.NoError(t, s.Put([]byte("k"), value))
	value[0] = 'z'

	got, err := s.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	got[0] = 'y'
	again, err := s.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestBadgerStore_Persists(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenBadger(dir)
	require.NoError(t, err)
	require.NoError(t, s.Put([]byte("k"), []byte("v")))
	require.NoError(t, s.Close())

	s, err = OpenBadger(dir)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	v, err := s.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}
