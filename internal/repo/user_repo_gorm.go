package repo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"pg-hostel-api/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

// Create 生成 user_id 并插入，全部在一个事务内完成。
// "user_<max(id)+1>" 并发下可能撞 uniqueIndex，撞了就整个事务重算重试。
func (r *UserRepo) Create(u *domain.User) error {
	const maxRetries = 3
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := r.db.Transaction(func(tx *gorm.DB) error {
			var maxID int64
			if err := tx.Model(&domain.User{}).
				Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
				return err
			}
			u.UserID = fmt.Sprintf("user_%d", maxID+1)
			return tx.Create(u).Error
		})
		if err == nil {
			return nil
		}
		lastErr = err
		if !IsDupKey(err) {
			return err
		}
		// 邮箱/手机号冲突重试也救不回来，直接报给上层
		if dup, ok := dupColumn(err); ok && dup != "user_id" {
			return err
		}
		u.ID = 0
	}
	return lastErr
}

func (r *UserRepo) FindByID(id int64) (*domain.User, error) {
	var u domain.User
	err := r.db.First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepo) FindByUserID(userID string) (*domain.User, error) {
	var u domain.User
	err := r.db.First(&u, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

// FindByEmailOrMobile 登录标识符两个字段通用
func (r *UserRepo) FindByEmailOrMobile(identifier string) (*domain.User, error) {
	var u domain.User
	err := r.db.First(&u, "email = ? OR mobile = ?", identifier, identifier).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *UserRepo) EmailExists(email string) (bool, error) {
	var n int64
	err := r.db.Model(&domain.User{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

func (r *UserRepo) MobileExists(mobile string) (bool, error) {
	var n int64
	err := r.db.Model(&domain.User{}).Where("mobile = ?", mobile).Count(&n).Error
	return n > 0, err
}

func (r *UserRepo) Update(u *domain.User) (*domain.User, error) {
	now := time.Now()
	u.UpdatedOn = &now
	if err := r.db.Save(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// IsDupKey 不依赖 gorm.ErrDuplicatedKey，跨 mysql/postgres/sqlite 按消息判断
func IsDupKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}

// dupColumn 尽力从错误消息里认出冲突列，认不出返回 false
func dupColumn(err error) (string, bool) {
	msg := strings.ToLower(err.Error())
	for _, col := range []string{"user_id", "email", "mobile", "hostel_id"} {
		if strings.Contains(msg, col) {
			return col, true
		}
	}
	return "", false
}
