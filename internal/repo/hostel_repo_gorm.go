package repo

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"pg-hostel-api/internal/domain"
)

type HostelRepo struct{ db *gorm.DB }

func NewHostelRepo(db *gorm.DB) *HostelRepo { return &HostelRepo{db: db} }

// Create 同 UserRepo.Create：事务内算 "Hostel_<max(id)+1>"，撞号重试
func (r *HostelRepo) Create(h *domain.Hostel) error {
	const maxRetries = 3
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := r.db.Transaction(func(tx *gorm.DB) error {
			var maxID int64
			if err := tx.Model(&domain.Hostel{}).
				Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
				return err
			}
			h.HostelID = fmt.Sprintf("Hostel_%d", maxID+1)
			return tx.Create(h).Error
		})
		if err == nil {
			return nil
		}
		lastErr = err
		if !IsDupKey(err) {
			return err
		}
		h.ID = 0
	}
	return lastErr
}

func (r *HostelRepo) FindByID(id int64) (*domain.Hostel, error) {
	var h domain.Hostel
	err := r.db.First(&h, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &h, err
}

func (r *HostelRepo) ListActive(offset, limit int) ([]domain.Hostel, int64, error) {
	var total int64
	q := r.db.Model(&domain.Hostel{}).Where("is_active = ?", true)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var hs []domain.Hostel
	if err := q.Order("id desc").Offset(offset).Limit(limit).Find(&hs).Error; err != nil {
		return nil, 0, err
	}
	return hs, total, nil
}

func (r *HostelRepo) Update(h *domain.Hostel) (*domain.Hostel, error) {
	now := time.Now()
	h.UpdatedOn = &now
	if err := r.db.Save(h).Error; err != nil {
		return nil, err
	}
	return h, nil
}
