package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pg-hostel-api/internal/domain"
	"pg-hostel-api/internal/repo"
)

func newHostelService(t *testing.T) *HostelService {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&domain.Hostel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// cache 传 nil：直查库路径
	return NewHostelService(repo.NewHostelRepo(db), nil, zap.NewNop())
}

func TestHostelCreateBatch(t *testing.T) {
	s := newHostelService(t)

	hs, err := s.Create([]string{"North Wing", "  ", "South Wing"}, true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(hs) != 2 {
		t.Fatalf("blank names must be skipped, got %d hostels", len(hs))
	}
	if hs[0].HostelID != "Hostel_1" || hs[1].HostelID != "Hostel_2" {
		t.Fatalf("ids = %q, %q", hs[0].HostelID, hs[1].HostelID)
	}
}

func TestHostelSoftDeleteKeepsRecord(t *testing.T) {
	s := newHostelService(t)
	hs, err := s.Create([]string{"North Wing", "South Wing"}, true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	deleted, err := s.SoftDelete(hs[0].ID)
	if err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if deleted.IsActive {
		t.Fatal("soft delete must clear is_active")
	}

	// 记录还在，Get 仍可见
	got, err := s.Get(hs[0].ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got.Name != "North Wing" {
		t.Fatalf("name = %q", got.Name)
	}

	// 列表只剩未删的
	page, err := s.ListActive(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 1 || len(page.Items) != 1 || page.Items[0].Name != "South Wing" {
		t.Fatalf("page = %+v", page)
	}
}

func TestHostelUpdatePartial(t *testing.T) {
	s := newHostelService(t)
	hs, _ := s.Create([]string{"North Wing"}, false)

	name := "Renamed Wing"
	updated, err := s.Update(hs[0].ID, &name, nil)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Renamed Wing" || updated.IsActive {
		t.Fatalf("updated = %+v", updated)
	}

	active := true
	updated, err = s.Update(hs[0].ID, nil, &active)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.IsActive || updated.Name != "Renamed Wing" {
		t.Fatalf("updated = %+v", updated)
	}
}

func TestHostelGetNotFound(t *testing.T) {
	s := newHostelService(t)
	if _, err := s.Get(42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if _, err := s.SoftDelete(42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
