package domain

import "time"

// Hostel 软删除语义：删除即 is_active=false，记录保留
type Hostel struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	HostelID  string     `gorm:"uniqueIndex;size:50;not null" json:"hostel_id"`
	Name      string     `gorm:"size:150" json:"name"`
	IsActive  bool       `gorm:"default:false" json:"is_active"`
	CreatedOn time.Time  `gorm:"autoCreateTime" json:"created_on"`
	UpdatedOn *time.Time `gorm:"autoUpdateTime:false" json:"updated_on"`
}

func (Hostel) TableName() string { return "hostel" }

type HostelRepository interface {
	Create(h *Hostel) error
	FindByID(id int64) (*Hostel, error)
	// ListActive 只返回 is_active=true 的，倒序分页，附带总数
	ListActive(offset, limit int) ([]Hostel, int64, error)
	Update(h *Hostel) (*Hostel, error)
}
