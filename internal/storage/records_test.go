package storage

import (
	"context"
	"testing"
	"time"

	"github.com/gmendes/orca/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	db, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background()))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newInsumo(id, name string, value float64) *model.CatalogRecord {
	rec := &model.CatalogRecord{
		ID:   id,
		Kind: model.KindInsumo,
		Name: name,
		Unit: "kg",
	}
	rec.AppendPrice(value, time.Now())
	return rec
}

func TestCreateAndGetRecord(t *testing.T) {
	db := newTestStorage(t)
	ctx := context.Background()

	rec := newInsumo("r1", "Cimento CP II", 1.30)
	rec.Tag = "aglomerante"
	rec.Notes = "saco 50kg"
	require.NoError(t, db.CreateRecord(ctx, rec))

	got, err := db.GetRecord(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Cimento CP II", got.Name)
	assert.Equal(t, model.KindInsumo, got.Kind)
	assert.Equal(t, "aglomerante", got.Tag)
	assert.Equal(t, 1.30, got.Value)
	require.Len(t, got.History, 1)
	assert.Equal(t, 1.30, got.History[0].Value)
	assert.NoError(t, got.Validate())
}

func TestGetRecordNotFound(t *testing.T) {
	db := newTestStorage(t)

	_, err := db.GetRecord(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestCreateRecordRejectsInvalid(t *testing.T) {
	db := newTestStorage(t)
	ctx := context.Background()

	// No history at all.
	err := db.CreateRecord(ctx, &model.CatalogRecord{ID: "r1", Kind: model.KindInsumo, Name: "x"})
	assert.ErrorIs(t, err, ErrInvalidRecord)

	// Empty name.
	rec := newInsumo("r2", "  ", 1)
	err = db.CreateRecord(ctx, rec)
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestAppendPriceGrowsHistoryInOrder(t *testing.T) {
	db := newTestStorage(t)
	ctx := context.Background()

	rec := newInsumo("r1", "Areia média", 110)
	require.NoError(t, db.CreateRecord(ctx, rec))

	require.NoError(t, db.AppendPrice(ctx, "r1", model.PriceEntry{Value: 115, RecordedAt: time.Now()}, "reajuste"))
	require.NoError(t, db.AppendPrice(ctx, "r1", model.PriceEntry{Value: 120, RecordedAt: time.Now()}, "reajuste"))

	got, err := db.GetRecord(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 120.0, got.Value)
	assert.Equal(t, "reajuste", got.Notes)
	require.Len(t, got.History, 3)
	assert.Equal(t, 110.0, got.History[0].Value)
	assert.Equal(t, 115.0, got.History[1].Value)
	assert.Equal(t, 120.0, got.History[2].Value)
	assert.NoError(t, got.Validate())
}

func TestAppendPriceMissingRecord(t *testing.T) {
	db := newTestStorage(t)

	err := db.AppendPrice(context.Background(), "missing", model.PriceEntry{Value: 1, RecordedAt: time.Now()}, "")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestListRecordsFiltersByKind(t *testing.T) {
	db := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, db.CreateRecord(ctx, newInsumo("r1", "Brita 1", 90)))
	require.NoError(t, db.CreateRecord(ctx, newInsumo("r2", "Areia média", 110)))

	comp := &model.CatalogRecord{ID: "c1", Kind: model.KindComposition, Name: "Alvenaria de vedação", Unit: "m2"}
	comp.AppendPrice(85.50, time.Now())
	require.NoError(t, db.CreateRecord(ctx, comp))

	insumos, err := db.ListRecords(ctx, model.KindInsumo)
	require.NoError(t, err)
	require.Len(t, insumos, 2)
	// Ordered by name, case-insensitive.
	assert.Equal(t, "Areia média", insumos[0].Name)
	assert.Equal(t, "Brita 1", insumos[1].Name)
	require.Len(t, insumos[0].History, 1)

	comps, err := db.ListRecords(ctx, model.KindComposition)
	require.NoError(t, err)
	require.Len(t, comps, 1)
	assert.Equal(t, "Alvenaria de vedação", comps[0].Name)
}

func TestDeleteRecordCascadesHistory(t *testing.T) {
	db := newTestStorage(t)
	ctx := context.Background()

	rec := newInsumo("r1", "Cimento CP II", 1.30)
	require.NoError(t, db.CreateRecord(ctx, rec))
	require.NoError(t, db.AppendPrice(ctx, "r1", model.PriceEntry{Value: 1.45, RecordedAt: time.Now()}, ""))

	require.NoError(t, db.DeleteRecord(ctx, "r1"))

	_, err := db.GetRecord(ctx, "r1")
	assert.ErrorIs(t, err, ErrRecordNotFound)

	var count int
	require.NoError(t, db.db.QueryRow(`SELECT COUNT(*) FROM price_history WHERE record_id = 'r1'`).Scan(&count))
	assert.Zero(t, count, "history dies with the record")

	assert.ErrorIs(t, db.DeleteRecord(ctx, "r1"), ErrRecordNotFound)
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestStorage(t)
	require.NoError(t, db.Migrate(context.Background()))
	require.NoError(t, db.Migrate(context.Background()))
}
