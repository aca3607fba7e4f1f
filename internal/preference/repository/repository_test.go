package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/lightmeasure/internal/clock"
	preferencedomain "github.com/smallbiznis/lightmeasure/internal/preference/domain"
	unitdomain "github.com/smallbiznis/lightmeasure/internal/unit/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func sampleState() preferencedomain.State {
	return preferencedomain.State{
		History: []string{
			"Weight: 500.0g → Total Price: ₹5.00",
			"Price: ₹25.0 → Weight: 2.50 kg",
		},
		DefaultPrice:  "10",
		PreferredUnit: unitdomain.Pound,
		BaseUnit:      unitdomain.Kilogram,
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, codec := range map[string]Codec{"json": JSON, "msgpack": Msgpack} {
		t.Run(name, func(t *testing.T) {
			store := NewFileStore(filepath.Join(t.TempDir(), "nested", "state."+name), codec)

			_, err := store.Load(ctx)
			assert.ErrorIs(t, err, preferencedomain.ErrNotFound)

			require.NoError(t, store.Save(ctx, sampleState()))
			got, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, sampleState(), got)

			cleared := sampleState()
			cleared.History = []string{}
			require.NoError(t, store.Save(ctx, cleared))
			got, err = store.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, got.History)
		})
	}
}

func TestFileStore_JSONKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "light_measure_data.json")
	store := NewFileStore(path, JSON)
	require.NoError(t, store.Save(context.Background(), preferencedomain.DefaultState()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"history":[],"default_price":"","preferred_unit":"g","base_unit":"kg"}`, string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path, JSON).Load(context.Background())
	assert.ErrorIs(t, err, preferencedomain.ErrCorrupt)
}

func TestFileStore_LegacyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "light_measure_data.json")
	legacy := `{"history": ["Weight: 5.0g → Total Price: ₹25.00\n", "Bulk calculation: 2 items processed\n"],` +
		` "default_price": "5000", "preferred_unit": "g", "base_unit": "Kilogram (kg)"}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	raw, err := NewFileStore(path, JSON).Load(context.Background())
	require.NoError(t, err)

	state := raw.Normalize()
	assert.Equal(t, []string{
		"Weight: 5.0g → Total Price: ₹25.00",
		"Bulk calculation: 2 items processed",
	}, state.History)
	assert.Equal(t, "5000", state.DefaultPrice)
	assert.Equal(t, unitdomain.Gram, state.PreferredUnit)
	assert.Equal(t, unitdomain.Kilogram, state.BaseUnit)
}

func TestFileStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewFileStore(filepath.Join(t.TempDir(), "state.json"), JSON)
	assert.ErrorIs(t, store.Save(ctx, sampleState()), context.Canceled)
	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func newTestSQLiteStore(t *testing.T) (preferencedomain.Repository, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))
	store, err := NewSQLiteStore(conn, node, clk)
	require.NoError(t, err)
	return store, conn, clk
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, conn, clk := newTestSQLiteStore(t)

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, preferencedomain.ErrNotFound)

	require.NoError(t, store.Save(ctx, sampleState()))
	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleState(), got)

	clk.Advance(time.Hour)
	next := sampleState()
	next.History = append(next.History, "Bulk calculation: 3 items processed")
	next.DefaultPrice = "12.5"
	require.NoError(t, store.Save(ctx, next))

	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, next, got)

	var pref PreferenceRow
	require.NoError(t, conn.First(&pref, preferenceRowID).Error)
	assert.True(t, pref.SavedAt.Equal(clk.Now()))

	var count int64
	require.NoError(t, conn.Model(&HistoryRow{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestSQLiteStore_ClearHistory(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestSQLiteStore(t)

	require.NoError(t, store.Save(ctx, sampleState()))
	cleared := sampleState()
	cleared.History = []string{}
	require.NoError(t, store.Save(ctx, cleared))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.History)
	assert.Equal(t, "10", got.DefaultPrice)
}
