package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogRecordAppendPrice(t *testing.T) {
	now := time.Now()
	rec := CatalogRecord{
		ID:   "r1",
		Name: "Cimento CP II",
		Unit: "kg",
		Kind: KindInsumo,
	}
	rec.AppendPrice(1.30, now)

	require.Len(t, rec.History, 1)
	assert.Equal(t, 1.30, rec.Value)
	assert.Equal(t, 1.30, rec.History[0].Value)

	later := now.Add(time.Hour)
	rec.AppendPrice(1.45, later)

	require.Len(t, rec.History, 2)
	assert.Equal(t, 1.45, rec.Value)
	// Prior entries are untouched and stay in order.
	assert.Equal(t, 1.30, rec.History[0].Value)
	assert.Equal(t, now, rec.History[0].RecordedAt)
	assert.Equal(t, later, rec.History[1].RecordedAt)
}

func TestCatalogRecordValidate(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		record  CatalogRecord
		wantErr bool
	}{
		{
			name: "valid record",
			record: CatalogRecord{
				ID:      "r1",
				Name:    "Areia média",
				Unit:    "m3",
				Kind:    KindInsumo,
				Value:   120.0,
				History: []PriceEntry{{RecordedAt: now, Value: 120.0}},
			},
		},
		{
			name: "empty name",
			record: CatalogRecord{
				ID:      "r2",
				Kind:    KindInsumo,
				Value:   1,
				History: []PriceEntry{{RecordedAt: now, Value: 1}},
			},
			wantErr: true,
		},
		{
			name: "unknown kind",
			record: CatalogRecord{
				ID:      "r3",
				Name:    "Brita 1",
				Kind:    RecordKind("gravel"),
				Value:   1,
				History: []PriceEntry{{RecordedAt: now, Value: 1}},
			},
			wantErr: true,
		},
		{
			name: "no history",
			record: CatalogRecord{
				ID:    "r4",
				Name:  "Brita 1",
				Kind:  KindInsumo,
				Value: 1,
			},
			wantErr: true,
		},
		{
			name: "value diverges from last history entry",
			record: CatalogRecord{
				ID:      "r5",
				Name:    "Brita 1",
				Kind:    KindInsumo,
				Value:   2,
				History: []PriceEntry{{RecordedAt: now, Value: 1}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
