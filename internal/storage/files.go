// Package storage 头像文件落盘，根目录来自 Media 配置
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type FileStore struct {
	root string
}

func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir %s: %w", root, err)
	}
	return &FileStore{root: root}, nil
}

// Save 文件名只取 base，防止路径穿越
func (s *FileStore) Save(name string, data []byte) error {
	return os.WriteFile(s.path(name), data, 0o644)
}

func (s *FileStore) Delete(name string) error {
	err := os.Remove(s.path(name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *FileStore) Exists(name string) bool {
	_, err := os.Stat(s.path(name))
	return err == nil
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.root, filepath.Base(strings.TrimSpace(name)))
}
