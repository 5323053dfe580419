package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())

	_, err := store.Get(ctx, "suppliers")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "suppliers", []byte(`{"suppliers":[]}`)))
	data, err := store.Get(ctx, "suppliers")
	require.NoError(t, err)
	assert.JSONEq(t, `{"suppliers":[]}`, string(data))

	entries, err := os.ReadDir(filepath.Dir(store.Path("suppliers")))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "suppliers.json", entries[0].Name())
}

func TestFileStoreRejectsTraversalKeys(t *testing.T) {
	store := NewFileStore(t.TempDir())
	for _, key := range []string{"", "../etc", "a/b", `a\b`} {
		err := store.Put(context.Background(), key, []byte("{}"))
		assert.Error(t, err, key)
	}
}

func TestCollectionPreservesMetadata(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())
	require.NoError(t, store.Put(ctx, "prices", []byte(`{"version": 2, "history": [{"id": 1, "name": "a"}]}`)))

	col := NewCollection[item](store, "prices", "history")
	items, err := col.Load(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)

	items = append(items, item{ID: 2, Name: "b"})
	require.NoError(t, col.Save(ctx, items))

	data, err := store.Get(ctx, "prices")
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.JSONEq(t, `2`, string(doc["version"]))
	assert.JSONEq(t, `[{"id":1,"name":"a"},{"id":2,"name":"b"}]`, string(doc["history"]))
}

func TestCollectionLoadMissingFieldIsEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())
	require.NoError(t, store.Put(ctx, "suppliers", []byte(`{}`)))

	items, err := NewCollection[item](store, "suppliers", "suppliers").Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)
}

func TestCollectionLoadMissingDocumentFails(t *testing.T) {
	_, err := NewCollection[item](NewFileStore(t.TempDir()), "suppliers", "suppliers").Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCollectionEnsure(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())
	col := NewCollection[item](store, "suppliers", "suppliers")

	created, err := col.Ensure(ctx)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = col.Ensure(ctx)
	require.NoError(t, err)
	assert.False(t, created)

	data, err := store.Get(ctx, "suppliers")
	require.NoError(t, err)
	assert.JSONEq(t, `{"suppliers":[]}`, string(data))
}

func TestCollectionWritesUnescapedText(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(t.TempDir())
	col := NewCollection[item](store, "suppliers", "suppliers")
	require.NoError(t, col.Save(ctx, []item{{ID: 1, Name: "Tijolos & Cia <Ltda>"}}))

	data, err := store.Get(ctx, "suppliers")
	require.NoError(t, err)
	assert.Contains(t, string(data), "Tijolos & Cia <Ltda>")
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client, "buildmat:")
	_, err := store.Get(ctx, "prices")
	require.ErrorIs(t, err, ErrNotFound)

	col := NewCollection[item](store, "prices", "history")
	require.NoError(t, col.Save(ctx, []item{{ID: 1, Name: "a"}}))

	raw, err := mr.Get("buildmat:prices")
	require.NoError(t, err)
	assert.Contains(t, raw, `"history"`)

	items, err := col.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: 1, Name: "a"}}, items)
}

func TestOpenRedisDriver(t *testing.T) {
	mr := miniredis.RunT(t)
	store, closeFn, err := Open(context.Background(), Options{Driver: DriverRedis, RedisAddr: mr.Addr()})
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &RedisStore{}, store)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, _, err := Open(context.Background(), Options{Driver: "s3"})
	require.Error(t, err)
}

type fakeRow struct {
	body []byte
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.body
	return nil
}

type fakeQuerier struct {
	mu      sync.Mutex
	rows    map[string][]byte
	queries []string
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, sql)
	body, ok := f.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{body: body}
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, sql)
	if strings.HasPrefix(sql, "INSERT") {
		f.rows[args[0].(string)] = []byte(args[1].(string))
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := &fakeQuerier{rows: map[string][]byte{}}
	store := NewPostgresStore(db, "")

	require.NoError(t, store.EnsureSchema(ctx))
	assert.Contains(t, db.queries[0], `CREATE TABLE IF NOT EXISTS "documents"`)

	_, err := store.Get(ctx, "suppliers")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "suppliers", []byte(`{"suppliers":[]}`)))
	assert.Contains(t, db.queries[len(db.queries)-1], "ON CONFLICT (key)")

	data, err := store.Get(ctx, "suppliers")
	require.NoError(t, err)
	assert.JSONEq(t, `{"suppliers":[]}`, string(data))
}
