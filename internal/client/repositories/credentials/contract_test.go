package credentials

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repoFactory func(t *testing.T) Repository

func backends() map[string]repoFactory {
	return map[string]repoFactory{
		"sqlite": func(t *testing.T) Repository {
			r, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "session.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = r.Close() })
			return r
		},
		"bolt": func(t *testing.T) Repository {
			r, err := OpenBolt(filepath.Join(t.TempDir(), "session.bolt"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = r.Close() })
			return r
		},
		"memory": func(t *testing.T) Repository {
			return NewMemoryRepository()
		},
	}
}

func TestRepository_Contract(t *testing.T) {
	for name, newRepo := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("missing key", func(t *testing.T) {
				r := newRepo(t)
				v, ok, err := r.Get(ctx, KeyToken)
				require.NoError(t, err)
				assert.False(t, ok)
				assert.Empty(t, v)
			})

			t.Run("set then get", func(t *testing.T) {
				r := newRepo(t)
				require.NoError(t, r.Set(ctx, KeyToken, "abc"))
				v, ok, err := r.Get(ctx, KeyToken)
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, "abc", v)
			})

			t.Run("set overwrites", func(t *testing.T) {
				r := newRepo(t)
				require.NoError(t, r.Set(ctx, KeyToken, "old"))
				require.NoError(t, r.Set(ctx, KeyToken, "new"))
				v, _, err := r.Get(ctx, KeyToken)
				require.NoError(t, err)
				assert.Equal(t, "new", v)
			})

			t.Run("empty value is present", func(t *testing.T) {
				r := newRepo(t)
				require.NoError(t, r.Set(ctx, KeyUser, ""))
				_, ok, err := r.Get(ctx, KeyUser)
				require.NoError(t, err)
				assert.True(t, ok)
			})

			t.Run("remove is idempotent", func(t *testing.T) {
				r := newRepo(t)
				require.NoError(t, r.Set(ctx, KeyToken, "x"))
				require.NoError(t, r.Remove(ctx, KeyToken))
				require.NoError(t, r.Remove(ctx, KeyToken))
				_, ok, err := r.Get(ctx, KeyToken)
				require.NoError(t, err)
				assert.False(t, ok)
			})

			t.Run("pair write and clear", func(t *testing.T) {
				r := newRepo(t)
				require.NoError(t, r.SetMany(ctx, map[string]string{KeyToken: "t1", KeyUser: `{"id":1}`}))

				tok, okT, err := r.Get(ctx, KeyToken)
				require.NoError(t, err)
				usr, okU, err := r.Get(ctx, KeyUser)
				require.NoError(t, err)
				assert.True(t, okT && okU)
				assert.Equal(t, "t1", tok)
				assert.Equal(t, `{"id":1}`, usr)

				require.NoError(t, r.RemoveMany(ctx, KeyToken, KeyUser))
				require.NoError(t, r.RemoveMany(ctx, KeyToken, KeyUser))

				_, okT, _ = r.Get(ctx, KeyToken)
				_, okU, _ = r.Get(ctx, KeyUser)
				assert.False(t, okT)
				assert.False(t, okU)
			})

			t.Run("concurrent pair clears", func(t *testing.T) {
				r := newRepo(t)
				require.NoError(t, r.SetMany(ctx, map[string]string{KeyToken: "t", KeyUser: "u"}))

				var wg sync.WaitGroup
				errs := make(chan error, 8)
				for i := 0; i < 8; i++ {
					wg.Add(1)
					go func() {
						defer wg.Done()
						errs <- r.RemoveMany(ctx, KeyToken, KeyUser)
					}()
				}
				wg.Wait()
				close(errs)
				for err := range errs {
					require.NoError(t, err)
				}

				_, okT, _ := r.Get(ctx, KeyToken)
				_, okU, _ := r.Get(ctx, KeyUser)
				assert.False(t, okT || okU)
			})
		})
	}
}

func TestRepository_SurvivesReopen(t *testing.T) {
	ctx := context.Background()

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.db")
		r, err := OpenSQLite(ctx, path)
		require.NoError(t, err)
		require.NoError(t, r.SetMany(ctx, map[string]string{KeyToken: "persisted", KeyUser: "{}"}))
		require.NoError(t, r.Close())

		r, err = OpenSQLite(ctx, path)
		require.NoError(t, err)
		defer r.Close()

		v, ok, err := r.Get(ctx, KeyToken)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "persisted", v)
	})

	t.Run("bolt", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.bolt")
		r, err := OpenBolt(path)
		require.NoError(t, err)
		require.NoError(t, r.SetMany(ctx, map[string]string{KeyToken: "persisted", KeyUser: "{}"}))
		require.NoError(t, r.Close())

		r, err = OpenBolt(path)
		require.NoError(t, err)
		defer r.Close()

		v, ok, err := r.Get(ctx, KeyUser)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "{}", v)
	})
}
