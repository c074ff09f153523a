package domain

import "time"

// User 账户记录。password 只存 bcrypt 散列；otp 列是密码重置用的
// 持久化验证码，和激活流程的内存验证码是两套机制。
type User struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       string     `gorm:"uniqueIndex;size:50;not null" json:"user_id"`
	Name         string     `gorm:"size:150" json:"name"`
	ProfileImage string     `gorm:"size:255" json:"profile_image"`
	UserRole     string     `gorm:"size:50;not null" json:"user_role"`
	Bio          string     `gorm:"size:500" json:"bio"`
	Email        string     `gorm:"uniqueIndex;size:150" json:"email"`
	Mobile       string     `gorm:"uniqueIndex;size:150" json:"mobile"`
	Password     string     `gorm:"size:150" json:"-"`
	AccessToken  string     `gorm:"size:500" json:"-"`
	RefreshToken string     `gorm:"size:500" json:"-"`
	OTP          string     `gorm:"size:6" json:"-"`
	IsActive     bool       `gorm:"default:false" json:"is_active"`
	VerifiedAt   *time.Time `json:"verified_at"`
	CreatedOn    time.Time  `gorm:"autoCreateTime" json:"created_on"`
	UpdatedOn    *time.Time `gorm:"autoUpdateTime:false" json:"updated_on"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	// Create 在一个事务里生成 user_id（"user_<max(id)+1>"）并插入，
	// user_id 撞号时在事务内重试
	Create(u *User) error
	FindByID(id int64) (*User, error)
	FindByUserID(userID string) (*User, error)
	FindByEmailOrMobile(identifier string) (*User, error)
	EmailExists(email string) (bool, error)
	MobileExists(mobile string) (bool, error)
	Update(u *User) (*User, error)
}
