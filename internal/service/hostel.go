package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"pg-hostel-api/internal/core/cache"
	"pg-hostel-api/internal/domain"
)

const hostelListTTL = 30 * time.Second

type HostelService struct {
	repo  domain.HostelRepository
	cache *cache.Cache // 可为 nil（测试/未配 redis 时直查库）
	log   *zap.Logger
}

func NewHostelService(repo domain.HostelRepository, c *cache.Cache, log *zap.Logger) *HostelService {
	return &HostelService{repo: repo, cache: c, log: log}
}

// Create 一次建一批，名字逐个生成 hostel_id
func (s *HostelService) Create(names []string, isActive bool) ([]domain.Hostel, error) {
	out := make([]domain.Hostel, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		h := domain.Hostel{Name: name, IsActive: isActive}
		if err := s.repo.Create(&h); err != nil {
			return nil, s.internalErr("create hostel", err)
		}
		out = append(out, h)
	}
	s.bumpListVersion(context.Background())
	return out, nil
}

type HostelPage struct {
	Items []domain.Hostel `json:"items"`
	Total int64           `json:"total"`
}

// ListActive 列表页走读穿缓存，singleflight 合并回源；
// 任何写操作通过版本号让整组 key 失效
func (s *HostelService) ListActive(ctx context.Context, skip, limit int) (*HostelPage, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	load := func(context.Context) (*HostelPage, error) {
		items, total, err := s.repo.ListActive(skip, limit)
		if err != nil {
			return nil, err
		}
		return &HostelPage{Items: items, Total: total}, nil
	}
	if s.cache == nil {
		page, err := load(ctx)
		if err != nil {
			return nil, s.internalErr("list hostels", err)
		}
		return page, nil
	}
	key := fmt.Sprintf("hostels:list:v%d:%d:%d", s.listVersion(ctx), skip, limit)
	page, err := cache.GetOrLoadJSON[HostelPage](s.cache, ctx, key, hostelListTTL, load)
	if err != nil {
		return nil, s.internalErr("list hostels", err)
	}
	return page, nil
}

func (s *HostelService) Get(id int64) (*domain.Hostel, error) {
	h, err := s.repo.FindByID(id)
	if err != nil {
		return nil, s.internalErr("find hostel", err)
	}
	if h == nil {
		return nil, ErrNotFound
	}
	return h, nil
}

func (s *HostelService) Update(id int64, name *string, isActive *bool) (*domain.Hostel, error) {
	h, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		h.Name = strings.TrimSpace(*name)
	}
	if isActive != nil {
		h.IsActive = *isActive
	}
	updated, err := s.repo.Update(h)
	if err != nil {
		return nil, s.internalErr("update hostel", err)
	}
	s.bumpListVersion(context.Background())
	return updated, nil
}

// SoftDelete 记录保留，只翻 is_active
func (s *HostelService) SoftDelete(id int64) (*domain.Hostel, error) {
	h, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	h.IsActive = false
	updated, err := s.repo.Update(h)
	if err != nil {
		return nil, s.internalErr("soft delete hostel", err)
	}
	s.bumpListVersion(context.Background())
	s.log.Info("hostel soft deleted", zap.Int64("id", id))
	return updated, nil
}

func (s *HostelService) listVersion(ctx context.Context) int64 {
	v, err := s.cache.RDB.Get(ctx, "hostels:list:ver").Int64()
	if err != nil {
		return 0
	}
	return v
}

func (s *HostelService) bumpListVersion(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.RDB.Incr(ctx, "hostels:list:ver").Err(); err != nil {
		s.log.Warn("bump hostel list version", zap.Error(err))
	}
}

func (s *HostelService) internalErr(op string, err error) error {
	s.log.Error(op, zap.Error(err))
	return ErrInternal
}
