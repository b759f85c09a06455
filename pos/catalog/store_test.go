package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-receipt/pos/types"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func storedCatalog(t *testing.T, kv *MemoryKV) types.Catalog {
	t.Helper()
	raw, ok, err := kv.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	require.True(t, ok, "expected a stored snapshot")
	var c types.Catalog
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	return c
}

func fiveItems() types.Catalog {
	return DefaultCatalog()[:5]
}

func TestLoad_MissingSnapshotUsesDefaults(t *testing.T) {
	kv := NewMemoryKV()
	store := NewStore(kv, WithIDGenerator(sequentialIDs()))

	c, err := store.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, c, 13)
	assert.Equal(t, "Soft Cookie 1 pcs", c[0].Name)
	assert.Equal(t, int64(20_000), c[0].Price)
	assert.Equal(t, "Mineral Water", c[12].Name)
	assert.Equal(t, "id-1", c[0].ID)
	assert.Zero(t, kv.Writes(), "loading must not write")
}

func TestLoad_CorruptSnapshotUsesDefaults(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":     "{oops",
		"null":         "null",
		"wrong shape":  `{"name":"Tea","price":1000}`,
		"string price": `[{"name":"Tea","price":"1000"}]`,
	} {
		t.Run(name, func(t *testing.T) {
			kv := NewMemoryKV()
			require.NoError(t, kv.Set(context.Background(), DefaultKey, raw))

			c, err := NewStore(kv).Load(context.Background())
			require.NoError(t, err)
			assert.Len(t, c, 13)
		})
	}
}

func TestLoad_StoredSnapshot(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(context.Background(), DefaultKey,
		`[{"name":"Tea","price":9000},{"id":"keep","name":"Latte","price":25000}]`))

	c, err := NewStore(kv, WithIDGenerator(sequentialIDs())).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, types.Catalog{
		{ID: "id-1", Name: "Tea", Price: 9000},
		{ID: "keep", Name: "Latte", Price: 25000},
	}, c)
}

func TestLoad_SkipsInvalidItems(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(context.Background(), DefaultKey,
		`[{"name":"","price":1000},{"id":"tea","name":"Tea","price":9000},{"name":"Cake","price":0}]`))

	c, err := NewStore(kv).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, types.Catalog{{ID: "tea", Name: "Tea", Price: 9000}}, c)
	assert.Zero(t, kv.Writes(), "loading must not write")
}

func TestLoad_EmptyStoredCatalog(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(context.Background(), DefaultKey, `[]`))

	c, err := NewStore(kv).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, c)
}

func TestLoad_CustomKey(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(context.Background(), "menu", `[{"name":"Tea","price":9000}]`))

	c, err := NewStore(kv, WithKey("menu")).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, c, 1)
	assert.Equal(t, "Tea", c[0].Name)
}

type failingKV struct{ err error }

func (f failingKV) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingKV) Set(context.Context, string, string) error         { return f.err }

func TestLoad_BackendFailure(t *testing.T) {
	boom := errors.New("connection refused")

	_, err := NewStore(failingKV{err: boom}).Load(context.Background())

	var persistence *types.PersistenceError
	require.ErrorAs(t, err, &persistence)
	assert.ErrorIs(t, err, boom)
}

func TestAddItem_Latte(t *testing.T) {
	kv := NewMemoryKV()
	store := NewStore(kv, WithIDGenerator(sequentialIDs()))
	before := fiveItems()

	after, err := store.AddItem(context.Background(), before, "Latte", 25000)
	require.NoError(t, err)

	require.Len(t, after, 6)
	last := after[5]
	assert.Equal(t, "Latte", last.Name)
	assert.Equal(t, int64(25000), last.Price)
	assert.Equal(t, "id-1", last.ID)
	assert.Len(t, before, 5, "input must not change")

	stored := storedCatalog(t, kv)
	assert.Len(t, stored, 6)
	assert.Equal(t, 1, kv.Writes())
}

func TestAddItem_TrimsName(t *testing.T) {
	kv := NewMemoryKV()

	after, err := NewStore(kv).AddItem(context.Background(), nil, "  Tea  ", 9000)
	require.NoError(t, err)
	assert.Equal(t, "Tea", after[0].Name)
}

func TestAddItem_Rejected(t *testing.T) {
	tests := []struct {
		name      string
		itemName  string
		itemPrice int64
	}{
		{"empty name", "", 25000},
		{"whitespace name", "   ", 25000},
		{"zero price", "Latte", 0},
		{"negative price", "Latte", -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := NewMemoryKV()
			before := fiveItems()

			after, err := NewStore(kv).AddItem(context.Background(), before, tt.itemName, tt.itemPrice)

			var validation *types.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Nil(t, after)
			assert.Len(t, before, 5)
			assert.Zero(t, kv.Writes(), "rejected add must not write")
		})
	}
}

func TestAddItem_WriteFailureLeavesCatalog(t *testing.T) {
	before := fiveItems()

	after, err := NewStore(failingKV{err: errors.New("disk full")}).AddItem(context.Background(), before, "Latte", 25000)

	var persistence *types.PersistenceError
	require.ErrorAs(t, err, &persistence)
	assert.Nil(t, after)
	assert.Len(t, before, 5)
}

func TestDeleteItem(t *testing.T) {
	kv := NewMemoryKV()
	store := NewStore(kv)
	before := fiveItems()

	after, err := store.DeleteItem(context.Background(), before, 1)
	require.NoError(t, err)

	require.Len(t, after, 4)
	assert.Equal(t, []string{"Soft Cookie 1 pcs", "Soft Cookies 6 pcs", "Soft Cookies 12 pcs", "Tiramisu"},
		names(after))
	assert.Len(t, before, 5, "input must not change")
	assert.Equal(t, "Soft Cookies 3 pcs", before[1].Name)
	assert.Len(t, storedCatalog(t, kv), 4)
}

func TestDeleteItem_LastAndFirst(t *testing.T) {
	store := NewStore(NewMemoryKV())

	after, err := store.DeleteItem(context.Background(), fiveItems(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Soft Cookies 12 pcs", after[len(after)-1].Name)

	after, err = store.DeleteItem(context.Background(), fiveItems(), 0)
	require.NoError(t, err)
	assert.Equal(t, "Soft Cookies 3 pcs", after[0].Name)
}

func TestDeleteItem_OutOfRange(t *testing.T) {
	for _, index := range []int{-1, 5, 100} {
		kv := NewMemoryKV()

		_, err := NewStore(kv).DeleteItem(context.Background(), fiveItems(), index)

		var precondition *types.PreconditionError
		require.ErrorAs(t, err, &precondition, "index %d", index)
		assert.Zero(t, kv.Writes())
	}
}

func TestAddThenLoadRoundTrip(t *testing.T) {
	kv := NewMemoryKV()
	store := NewStore(kv)

	initial, err := store.Load(context.Background())
	require.NoError(t, err)
	added, err := store.AddItem(context.Background(), initial, "Aren Latte Large", 30000)
	require.NoError(t, err)

	reloaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, added, reloaded)
}

func TestMutationsPersistIDs(t *testing.T) {
	kv := NewMemoryKV()
	store := NewStore(kv)

	added, err := store.AddItem(context.Background(), fiveItems(), "Latte", 25000)
	require.NoError(t, err)
	for _, item := range storedCatalog(t, kv) {
		assert.NotEmpty(t, item.ID, item.Name)
	}

	first, err := store.Load(context.Background())
	require.NoError(t, err)
	second, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, added, first)
	assert.Equal(t, first, second, "ids must not change between loads")

	deleted, err := NewStore(NewMemoryKV()).DeleteItem(context.Background(), fiveItems(), 0)
	require.NoError(t, err)
	for _, item := range deleted {
		assert.NotEmpty(t, item.ID, item.Name)
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"25000", 25000, false},
		{" 8000 ", 8000, false},
		{"", 0, true},
		{"0", 0, true},
		{"-100", 0, true},
		{"abc", 0, true},
		{"12.5", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParsePrice(tt.raw)
			if tt.wantErr {
				var validation *types.ValidationError
				require.ErrorAs(t, err, &validation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func names(c types.Catalog) []string {
	out := make([]string, len(c))
	for i, item := range c {
		out[i] = item.Name
	}
	return out
}
