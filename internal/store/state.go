package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/belajarexportimport-sudo/Oceanland/internal/model"
)

// Name 持久化后端名称
func (s *Store) Name() string {
	if s.driver == DriverPostgres {
		return "postgres"
	}
	return "sqlite"
}

// Save 以固定键写入快照（存在则覆盖）
func (s *Store) Save(ctx context.Context, snap *model.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query := s.db.Rebind(`
		INSERT INTO dashboard_state (state_key, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (state_key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`)
	if _, err := s.db.ExecContext(ctx, query, model.StorageKey, string(payload), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load 读取快照，不存在时返回 nil, nil
func (s *Store) Load(ctx context.Context) (*model.Snapshot, error) {
	var payload string
	query := s.db.Rebind(`SELECT payload FROM dashboard_state WHERE state_key = ?`)
	if err := s.db.GetContext(ctx, &payload, query, model.StorageKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap model.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	snap.Normalize()
	return &snap, nil
}

// Clear 删除快照
func (s *Store) Clear(ctx context.Context) error {
	query := s.db.Rebind(`DELETE FROM dashboard_state WHERE state_key = ?`)
	if _, err := s.db.ExecContext(ctx, query, model.StorageKey); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}
	return nil
}
