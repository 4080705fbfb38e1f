package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/run-bigpig/roundtable/internal/models"
)

var _ Store = &SQLiteStore{}

// SQLiteStore 单文件 sqlite 存档实现
// 顶层字段单独成列方便列表查询，完整快照按 JSON 存 data 列
type SQLiteStore struct {
	db    *sql.DB
	limit int
}

// NewSQLiteStore 打开（必要时创建）sqlite 存档
func NewSQLiteStore(dbPath string, limit int) (*SQLiteStore, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store error: %w", err)
	}

	s := &SQLiteStore{db: db, limit: limit}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite store error: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		topic TEXT NOT NULL,
		date TIMESTAMP NOT NULL,
		status TEXT NOT NULL,
		data TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_projects_date ON projects(date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save 按 ID upsert 整份快照
func (s *SQLiteStore) Save(item *models.HistoryItem) error {
	if item.ID == "" {
		return fmt.Errorf("history item has no id")
	}

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal history item error: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO projects (id, topic, date, status, data) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET topic = excluded.topic, date = excluded.date,
		 status = excluded.status, data = excluded.data`,
		item.ID, item.Topic, item.Date, item.Status, string(data),
	)
	if err != nil {
		return fmt.Errorf("save history item error: %w", err)
	}
	return nil
}

// Load 按 ID 读取快照
func (s *SQLiteStore) Load(id string) (*models.HistoryItem, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM projects WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load history item error: %w", err)
	}

	var item models.HistoryItem
	if err := json.Unmarshal([]byte(data), &item); err != nil {
		return nil, fmt.Errorf("parse history item %s error: %w", id, err)
	}
	return &item, nil
}

// List 按日期倒序返回最近的项目
func (s *SQLiteStore) List() ([]*models.HistoryItem, error) {
	rows, err := s.db.Query(`SELECT data FROM projects ORDER BY date DESC LIMIT ?`, s.limit)
	if err != nil {
		return nil, fmt.Errorf("list history items error: %w", err)
	}
	defer rows.Close()

	var items []*models.HistoryItem
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var item models.HistoryItem
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			continue
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
