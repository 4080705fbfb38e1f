package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/run-bigpig/roundtable/internal/models"
	"github.com/run-bigpig/roundtable/internal/pkg/paths"
)

var _ Store = &FileStore{}

// FileStore 每个项目一个 JSON 文件的存档实现
type FileStore struct {
	dir   string
	limit int
}

// NewFileStore 在指定目录创建文件存档，目录不存在时自动建立
func NewFileStore(dir string, limit int) (*FileStore, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if _, err := paths.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create store dir error: %w", err)
	}
	return &FileStore{dir: dir, limit: limit}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save 整份快照写盘，先写临时文件再改名，避免写一半的存档
func (s *FileStore) Save(item *models.HistoryItem) error {
	if item.ID == "" {
		return fmt.Errorf("history item has no id")
	}

	data, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history item error: %w", err)
	}

	tmp := s.path(item.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write history item error: %w", err)
	}
	if err := os.Rename(tmp, s.path(item.ID)); err != nil {
		return fmt.Errorf("write history item error: %w", err)
	}
	return nil
}

// Load 读取单个项目快照
func (s *FileStore) Load(id string) (*models.HistoryItem, error) {
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read history item error: %w", err)
	}

	var item models.HistoryItem
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("parse history item %s error: %w", id, err)
	}
	return &item, nil
}

// List 按日期倒序返回最近的项目，损坏的存档跳过
func (s *FileStore) List() ([]*models.HistoryItem, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read store dir error: %w", err)
	}

	var items []*models.HistoryItem
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		item, err := s.Load(id)
		if err != nil {
			continue
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
	if len(items) > s.limit {
		items = items[:s.limit]
	}
	return items, nil
}

func (s *FileStore) Close() error {
	return nil
}
