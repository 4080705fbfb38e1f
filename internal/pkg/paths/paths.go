package paths

import (
	"os"
	"path/filepath"
)

// GetDataDir 获取应用数据目录
func GetDataDir() string {
	userConfigDir, err := os.UserConfigDir()
	if err != nil || userConfigDir == "" {
		return filepath.Join(".", "data")
	}
	return filepath.Join(userConfigDir, "roundtable")
}

// GetHistoryDir 获取项目历史存储目录
func GetHistoryDir() string {
	return filepath.Join(GetDataDir(), "history")
}

// EnsureDir 确保目录存在并返回路径
func EnsureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
