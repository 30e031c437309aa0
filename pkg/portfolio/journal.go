package portfolio

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// journal records every table mutation in a SQLite operation log.
type journal struct {
	db     *sql.DB
	logger *slog.Logger
}

func openJournal(path string, logger *slog.Logger) (*journal, error) {
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	db, err := sql.Open("sqlite", cleanPath)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// SQLite performs best with a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logger.Warn("pragma busy_timeout failed", "err", err)
	}
	if err := initJournalSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init journal: %w", err)
	}
	return &journal{db: db, logger: logger}, nil
}

func initJournalSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS operation_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			operation_type TEXT NOT NULL,
			row_index INTEGER,
			instrument TEXT,
			invested REAL,
			final_value REAL,
			details TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

func (j *journal) close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

func (j *journal) record(entry OperationLog) (int64, error) {
	var rowIndex any
	if entry.RowIndex != nil {
		rowIndex = *entry.RowIndex
	}
	result, err := j.db.Exec(`
		INSERT INTO operation_logs (operation_type, row_index, instrument, invested, final_value, details)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.Operation, rowIndex, entry.Instrument, sqlAmount(entry.Invested), sqlAmount(entry.FinalValue), entry.Details)
	if err != nil {
		return 0, WrapError(ErrCodeJournal, "insert operation log", err)
	}
	return result.LastInsertId()
}

func (j *journal) list(limit, offset int) ([]OperationLog, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := j.db.Query(
		"SELECT id, operation_type, row_index, instrument, invested, final_value, details, created_at FROM operation_logs ORDER BY id DESC LIMIT ? OFFSET ?",
		limit, offset,
	)
	if err != nil {
		return nil, WrapError(ErrCodeJournal, "query operation logs", err)
	}
	defer rows.Close()

	logs := []OperationLog{}
	for rows.Next() {
		var log OperationLog
		var rowIndex sql.NullInt64
		var instrument, details, createdAt sql.NullString
		var invested, finalValue sql.NullFloat64
		if err := rows.Scan(&log.ID, &log.Operation, &rowIndex, &instrument, &invested, &finalValue, &details, &createdAt); err != nil {
			return nil, WrapError(ErrCodeJournal, "scan operation log", err)
		}
		if rowIndex.Valid {
			log.RowIndex = intPtr(int(rowIndex.Int64))
		}
		if instrument.Valid {
			log.Instrument = &instrument.String
		}
		if invested.Valid {
			log.Invested = AmountPtr(invested.Float64)
		}
		if finalValue.Valid {
			log.FinalValue = AmountPtr(finalValue.Float64)
		}
		if details.Valid {
			log.Details = &details.String
		}
		if createdAt.Valid {
			log.CreatedAt = &createdAt.String
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}
