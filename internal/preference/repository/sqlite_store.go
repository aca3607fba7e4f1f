package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/lightmeasure/internal/clock"
	preferencedomain "github.com/smallbiznis/lightmeasure/internal/preference/domain"
	unitdomain "github.com/smallbiznis/lightmeasure/internal/unit/domain"
	"gorm.io/gorm"
)

const preferenceRowID = 1

// PreferenceRow is the single settings row of the SQLite backend.
type PreferenceRow struct {
	ID            int64     `gorm:"primaryKey;autoIncrement:false"`
	DefaultPrice  string    `gorm:"type:text;not null;default:''"`
	PreferredUnit string    `gorm:"type:text;not null"`
	BaseUnit      string    `gorm:"type:text;not null"`
	SavedAt       time.Time `gorm:"not null"`
}

func (PreferenceRow) TableName() string { return "preferences" }

// HistoryRow is one history entry; Position keeps insertion order.
type HistoryRow struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Position  int          `gorm:"not null;index"`
	Entry     string       `gorm:"type:text;not null"`
	CreatedAt time.Time    `gorm:"not null"`
}

func (HistoryRow) TableName() string { return "history_entries" }

type sqliteStore struct {
	db    *gorm.DB
	genID *snowflake.Node
	clock clock.Clock
}

// NewSQLiteStore migrates the schema and returns a store backed by db.
func NewSQLiteStore(db *gorm.DB, genID *snowflake.Node, clk clock.Clock) (preferencedomain.Repository, error) {
	if err := db.AutoMigrate(&PreferenceRow{}, &HistoryRow{}); err != nil {
		return nil, err
	}
	return &sqliteStore{db: db, genID: genID, clock: clk}, nil
}

func (r *sqliteStore) Load(ctx context.Context) (preferencedomain.State, error) {
	var pref PreferenceRow
	err := r.db.WithContext(ctx).Where("id = ?", preferenceRowID).First(&pref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return preferencedomain.State{}, preferencedomain.ErrNotFound
		}
		return preferencedomain.State{}, err
	}

	var rows []HistoryRow
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&rows).Error; err != nil {
		return preferencedomain.State{}, err
	}

	state := preferencedomain.State{
		History:       make([]string, 0, len(rows)),
		DefaultPrice:  pref.DefaultPrice,
		PreferredUnit: unitdomain.Code(pref.PreferredUnit),
		BaseUnit:      unitdomain.Code(pref.BaseUnit),
	}
	for _, row := range rows {
		state.History = append(state.History, row.Entry)
	}
	return state, nil
}

// Save replaces every row inside one transaction.
func (r *sqliteStore) Save(ctx context.Context, state preferencedomain.State) error {
	now := r.clock.Now()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pref := PreferenceRow{
			ID:            preferenceRowID,
			DefaultPrice:  state.DefaultPrice,
			PreferredUnit: string(state.PreferredUnit),
			BaseUnit:      string(state.BaseUnit),
			SavedAt:       now,
		}
		if err := tx.Save(&pref).Error; err != nil {
			return err
		}

		if err := tx.Where("1 = 1").Delete(&HistoryRow{}).Error; err != nil {
			return err
		}
		if len(state.History) == 0 {
			return nil
		}

		rows := make([]HistoryRow, 0, len(state.History))
		for i, entry := range state.History {
			rows = append(rows, HistoryRow{
				ID:        r.genID.Generate(),
				Position:  i,
				Entry:     entry,
				CreatedAt: now,
			})
		}
		return tx.CreateInBatches(rows, 200).Error
	})
}
