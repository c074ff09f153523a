package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveExistsDelete(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := s.Save("user_1_me.png", []byte("data")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !s.Exists("user_1_me.png") {
		t.Fatal("saved file must exist")
	}
	if err := s.Delete("user_1_me.png"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if s.Exists("user_1_me.png") {
		t.Fatal("deleted file must not exist")
	}
	// 删不存在的不报错
	if err := s.Delete("user_1_me.png"); err != nil {
		t.Fatalf("double delete: %v", err)
	}
}

func TestSaveStripsPathComponents(t *testing.T) {
	root := t.TempDir()
	s, err := NewFileStore(root)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := s.Save("../../etc/evil.png", []byte("x")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "evil.png")); err != nil {
		t.Fatal("file must land inside the media root")
	}
	if _, err := os.Stat(filepath.Join(root, "..", "..", "etc", "evil.png")); err == nil {
		t.Fatal("file must not escape the media root")
	}
}
