package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/belajarexportimport-sudo/Oceanland/internal/model"
)

type importLogRow struct {
	Filename      string    `db:"filename"`
	ImportedCount int       `db:"imported_count"`
	Kinds         string    `db:"kinds"`
	ImportedAt    time.Time `db:"imported_at"`
}

// AppendImport 写入导入日志
func (s *Store) AppendImport(ctx context.Context, item model.ImportLog) error {
	kinds := make([]string, 0, len(item.Kinds))
	for _, k := range item.Kinds {
		kinds = append(kinds, string(k))
	}

	query := s.db.Rebind(`
		INSERT INTO import_logs (filename, imported_count, kinds, imported_at)
		VALUES (?, ?, ?, ?)
	`)
	if _, err := s.db.ExecContext(ctx, query, item.FileName, item.ImportedCount, strings.Join(kinds, ","), item.ImportedAt.UTC()); err != nil {
		return fmt.Errorf("failed to create import log: %w", err)
	}
	return nil
}

// ImportHistory 最近的导入日志（新的在前）
func (s *Store) ImportHistory(ctx context.Context, limit int) ([]model.ImportLog, error) {
	var rows []importLogRow
	query := s.db.Rebind(`
		SELECT filename, imported_count, kinds, imported_at
		FROM import_logs
		ORDER BY imported_at DESC, id DESC
		LIMIT ?
	`)
	if err := s.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query import logs: %w", err)
	}

	out := make([]model.ImportLog, 0, len(rows))
	for _, r := range rows {
		item := model.ImportLog{
			ImportedAt:    r.ImportedAt.UTC(),
			FileName:      r.Filename,
			ImportedCount: r.ImportedCount,
			Kinds:         []model.Kind{},
		}
		for _, k := range strings.Split(r.Kinds, ",") {
			if k != "" {
				item.Kinds = append(item.Kinds, model.Kind(k))
			}
		}
		out = append(out, item)
	}
	return out, nil
}
