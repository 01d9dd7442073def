package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Freeeeeet/unischedule_bot/internal/model"
	"github.com/Freeeeeet/unischedule_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	snapshotGroups   = "groups"
	snapshotTeachers = "teachers"
)

// SnapshotRepository хранит снимки справочников в PostgreSQL
type SnapshotRepository struct {
	*base.Repository
}

func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{Repository: base.NewRepository(pool)}
}

// Save перезаписывает снимок групп и преподавателей одной транзакцией
func (r *SnapshotRepository) Save(ctx context.Context, snap *model.ReferenceSnapshot) error {
	groups, err := json.Marshal(snap.Groups)
	if err != nil {
		return fmt.Errorf("marshal groups: %w", err)
	}
	teachers, err := json.Marshal(snap.Teachers)
	if err != nil {
		return fmt.Errorf("marshal teachers: %w", err)
	}

	query := `
		INSERT INTO reference_snapshots (kind, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (kind) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`

	return r.InTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, query, snapshotGroups, groups, snap.TakenAt); err != nil {
			return fmt.Errorf("save groups snapshot: %w", err)
		}
		if _, err := tx.Exec(ctx, query, snapshotTeachers, teachers, snap.TakenAt); err != nil {
			return fmt.Errorf("save teachers snapshot: %w", err)
		}
		return nil
	})
}

// Load читает последний снимок. Если снимка нет, возвращает nil, nil.
func (r *SnapshotRepository) Load(ctx context.Context) (*model.ReferenceSnapshot, error) {
	snap := &model.ReferenceSnapshot{}

	groupsAt, err := r.loadKind(ctx, snapshotGroups, &snap.Groups)
	if err != nil {
		return nil, err
	}
	teachersAt, err := r.loadKind(ctx, snapshotTeachers, &snap.Teachers)
	if err != nil {
		return nil, err
	}

	if groupsAt.IsZero() && teachersAt.IsZero() {
		return nil, nil
	}
	snap.TakenAt = groupsAt
	if teachersAt.Before(snap.TakenAt) {
		snap.TakenAt = teachersAt
	}
	return snap, nil
}

func (r *SnapshotRepository) loadKind(ctx context.Context, kind string, dst any) (time.Time, error) {
	query := `SELECT payload, updated_at FROM reference_snapshots WHERE kind = $1`

	var (
		payload   []byte
		updatedAt time.Time
	)
	err := r.QueryRow(ctx, query, kind).Scan(&payload, &updatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("load %s snapshot: %w", kind, err)
	}

	if err := json.Unmarshal(payload, dst); err != nil {
		return time.Time{}, fmt.Errorf("decode %s snapshot: %w", kind, err)
	}
	return updatedAt, nil
}
