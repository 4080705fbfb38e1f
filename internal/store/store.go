// Package store 项目存档
// 按 ID upsert 整份 HistoryItem 快照，列表按时间倒序且有条数上限
package store

import (
	"errors"

	"github.com/run-bigpig/roundtable/internal/models"
)

// ErrNotFound 请求的项目不存在
var ErrNotFound = errors.New("project not found")

// DefaultListLimit 列表默认返回的最大条数
const DefaultListLimit = 20

// Store 项目存档接口
type Store interface {
	// Save 按 ID upsert 快照
	Save(item *models.HistoryItem) error
	// Load 按 ID 读取，不存在时报 ErrNotFound
	Load(id string) (*models.HistoryItem, error)
	// List 按时间倒序返回最近的项目
	List() ([]*models.HistoryItem, error)
	Close() error
}
