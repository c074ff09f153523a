package service

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"pg-hostel-api/internal/core/auth"
	"pg-hostel-api/internal/core/otp"
	"pg-hostel-api/internal/domain"
	"pg-hostel-api/internal/notify"
	"pg-hostel-api/internal/storage"
	"pg-hostel-api/pkg/utils"
)

type UserService struct {
	repo      domain.UserRepository
	jwter     *auth.JWTer
	blacklist *auth.Blacklist
	otp       *otp.Store
	mailer    notify.Mailer
	files     *storage.FileStore
	log       *zap.Logger

	baseURL   string
	maxUpload int64

	// 邮件发送的调度点。默认起 goroutine，失败只记日志；
	// 测试里替换成同步执行
	dispatch func(fn func())
}

func NewUserService(
	repo domain.UserRepository,
	jwter *auth.JWTer,
	blacklist *auth.Blacklist,
	otpStore *otp.Store,
	mailer notify.Mailer,
	files *storage.FileStore,
	log *zap.Logger,
	baseURL string,
	maxUpload int64,
) *UserService {
	if maxUpload <= 0 {
		maxUpload = 1 << 20
	}
	return &UserService{
		repo:      repo,
		jwter:     jwter,
		blacklist: blacklist,
		otp:       otpStore,
		mailer:    mailer,
		files:     files,
		log:       log,
		baseURL:   baseURL,
		maxUpload: maxUpload,
		dispatch:  func(fn func()) { go fn() },
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Mobile   string
	Password string
	UserRole string
}

// Register 建号（未激活）→ 签发令牌对 → 下发激活验证码。
// 邮件是注册已提交之后的尽力通知，发送失败不影响结果。
func (s *UserService) Register(in RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	mobile := strings.TrimSpace(in.Mobile)

	if exists, err := s.repo.EmailExists(email); err != nil {
		return nil, s.internal("check email", err)
	} else if exists {
		s.log.Warn("registration with existing email", zap.String("email", email))
		return nil, ErrDuplicateEmail
	}
	if exists, err := s.repo.MobileExists(mobile); err != nil {
		return nil, s.internal("check mobile", err)
	} else if exists {
		s.log.Warn("registration with existing mobile", zap.String("mobile", mobile))
		return nil, ErrDuplicateMobile
	}

	code := s.otp.Issue(email)
	u := &domain.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Mobile:   mobile,
		UserRole: in.UserRole,
		Password: utils.HashPassword(in.Password),
		IsActive: false,
		OTP:      code,
	}
	if err := s.repo.Create(u); err != nil {
		// 查重和插入之间有并发窗口，唯一约束兜底
		if mapped := s.mapDup(err); mapped != nil {
			return nil, mapped
		}
		return nil, s.internal("create user", err)
	}

	access, refresh, err := s.jwter.IssuePair(u.UserID)
	if err != nil {
		return nil, s.internal("issue tokens", err)
	}
	u.AccessToken = access
	u.RefreshToken = refresh
	if _, err := s.repo.Update(u); err != nil {
		return nil, s.internal("store tokens", err)
	}

	s.sendOTPMail(u.Name, u.Email, code)
	s.log.Info("user registered", zap.String("user_id", u.UserID))
	return u, nil
}

// VerifyOTP 激活账号。验证码走内存 authority：一次性、10 分钟有效
func (s *UserService) VerifyOTP(id int64, code string) (*domain.User, error) {
	u, err := s.repo.FindByID(id)
	if err != nil {
		return nil, s.internal("find user", err)
	}
	if u == nil {
		return nil, ErrNotFound
	}
	if !s.otp.Validate(u.Email, code) {
		s.log.Warn("otp validation failed", zap.Int64("id", id))
		return nil, ErrInvalidOTP
	}
	now := time.Now()
	u.IsActive = true
	u.VerifiedAt = &now
	if _, err := s.repo.Update(u); err != nil {
		return nil, s.internal("activate user", err)
	}
	s.log.Info("user verified", zap.String("user_id", u.UserID))
	return u, nil
}

// ResendOTP 未激活账号重发验证码，旧码被静默覆盖
func (s *UserService) ResendOTP(id int64) (*domain.User, error) {
	u, err := s.repo.FindByID(id)
	if err != nil {
		return nil, s.internal("find user", err)
	}
	if u == nil {
		return nil, ErrNotFound
	}
	if u.IsActive {
		return nil, ErrAlreadyActive
	}
	code := s.otp.Issue(u.Email)
	u.OTP = code
	if _, err := s.repo.Update(u); err != nil {
		return nil, s.internal("store otp", err)
	}
	s.sendOTPMail(u.Name, u.Email, code)
	return u, nil
}

// Login 标识符兼容邮箱/手机号。已有令牌对就原样返回，不做静默轮换
func (s *UserService) Login(identifier, password string) (*domain.User, error) {
	u, err := s.repo.FindByEmailOrMobile(strings.TrimSpace(identifier))
	if err != nil {
		return nil, s.internal("find user", err)
	}
	if u == nil {
		s.log.Warn("login: user not found", zap.String("identifier", identifier))
		return nil, ErrNotFound
	}
	if !utils.CheckPassword(password, u.Password) {
		s.log.Warn("login: bad password", zap.String("user_id", u.UserID))
		return nil, ErrInvalidPassword
	}
	if !u.IsActive {
		s.log.Warn("login: inactive user", zap.String("user_id", u.UserID))
		return nil, ErrInactive
	}

	if u.AccessToken != "" && u.RefreshToken != "" {
		return u, nil
	}
	access, refresh, err := s.jwter.IssuePair(u.UserID)
	if err != nil {
		return nil, s.internal("issue tokens", err)
	}
	u.AccessToken = access
	u.RefreshToken = refresh
	if _, err := s.repo.Update(u); err != nil {
		return nil, s.internal("store tokens", err)
	}
	return u, nil
}

// Refresh 轮换令牌对。旧 refresh token 被整体覆盖后不再可用，
// 但不进吊销表（decode 之外没有第二道检查的必要）
func (s *UserService) Refresh(refreshToken string) (*domain.User, error) {
	claims, err := s.jwter.ParseType(refreshToken, auth.TokenRefresh)
	if err != nil {
		if errors.Is(err, auth.ErrExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	u, err := s.repo.FindByUserID(claims.Subject)
	if err != nil {
		return nil, s.internal("find user", err)
	}
	if u == nil {
		return nil, ErrNotFound
	}
	access, refresh, err := s.jwter.IssuePair(u.UserID)
	if err != nil {
		return nil, s.internal("issue tokens", err)
	}
	u.AccessToken = access
	u.RefreshToken = refresh
	if _, err := s.repo.Update(u); err != nil {
		return nil, s.internal("store tokens", err)
	}
	s.log.Info("tokens refreshed", zap.String("user_id", u.UserID))
	return u, nil
}

// Logout 把当前 access token 拉黑，用户记录本身不动。
// 已过期的令牌不用进表，decode 侧反正会拒绝。
func (s *UserService) Logout(accessToken string) error {
	claims, err := s.jwter.Parse(accessToken)
	if err != nil {
		if errors.Is(err, auth.ErrExpired) {
			return nil
		}
		return ErrTokenInvalid
	}
	s.blacklist.Add(accessToken, claims.ExpiresAt.Time)
	s.log.Info("token blacklisted", zap.String("user_id", claims.Subject))
	return nil
}

// Me 受保护的资料读取，未激活账号拒绝
func (s *UserService) Me(userID string) (*domain.User, error) {
	u, err := s.repo.FindByUserID(userID)
	if err != nil {
		return nil, s.internal("find user", err)
	}
	if u == nil {
		return nil, ErrNotFound
	}
	if !u.IsActive {
		return nil, ErrInactive
	}
	return u, nil
}

type ImageUpload struct {
	Filename string
	Data     []byte
}

type UpdateProfileInput struct {
	Name     *string
	Bio      *string
	Email    *string
	Mobile   *string
	IsActive *bool
	Image    *ImageUpload
}

// UpdateProfile 部分字段更新；带图则限 1MiB，旧图（非默认）删掉，
// 新图以 "<user_id>_<原文件名>" 落盘
func (s *UserService) UpdateProfile(userID string, in UpdateProfileInput) (*domain.User, error) {
	u, err := s.repo.FindByUserID(userID)
	if err != nil {
		return nil, s.internal("find user", err)
	}
	if u == nil {
		return nil, ErrNotFound
	}

	if in.Image != nil {
		if int64(len(in.Image.Data)) > s.maxUpload {
			return nil, ErrImageTooLarge
		}
		newName := userID + "_" + filepath.Base(in.Image.Filename)
		if u.ProfileImage != "" && u.ProfileImage != "default.png" {
			if err := s.files.Delete(u.ProfileImage); err != nil {
				s.log.Warn("delete old profile image", zap.String("file", u.ProfileImage), zap.Error(err))
			}
		}
		if err := s.files.Save(newName, in.Image.Data); err != nil {
			return nil, s.internal("save profile image", err)
		}
		u.ProfileImage = newName
	}

	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Bio != nil {
		u.Bio = *in.Bio
	}
	if in.Email != nil {
		u.Email = strings.TrimSpace(*in.Email)
	}
	if in.Mobile != nil {
		u.Mobile = strings.TrimSpace(*in.Mobile)
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}

	updated, err := s.repo.Update(u)
	if err != nil {
		if mapped := s.mapDup(err); mapped != nil {
			return nil, mapped
		}
		return nil, s.internal("update user", err)
	}
	return updated, nil
}

// RequestPasswordReset 重置码同时写进 authority 和 otp 列：
// ResetPassword 走的是列直比，authority 那份只决定时效
func (s *UserService) RequestPasswordReset(identifier string) error {
	u, err := s.repo.FindByEmailOrMobile(strings.TrimSpace(identifier))
	if err != nil {
		return s.internal("find user", err)
	}
	if u == nil {
		return ErrNotFound
	}
	code := s.otp.Issue(u.Email)
	u.OTP = code
	if _, err := s.repo.Update(u); err != nil {
		return s.internal("store otp", err)
	}
	name, email := u.Name, u.Email
	s.dispatch(func() {
		if err := s.mailer.SendPasswordResetEmail(name, email, code, s.baseURL); err != nil {
			s.log.Error("send reset email failed", zap.String("email", email), zap.Error(err))
		}
	})
	return nil
}

// ResetPassword 持久化 otp 列直比（与激活验证码是两套机制），
// 成功后清掉 otp 列；已签发的令牌不受影响
func (s *UserService) ResetPassword(identifier, otpCode, newPassword string) error {
	u, err := s.repo.FindByEmailOrMobile(strings.TrimSpace(identifier))
	if err != nil {
		return s.internal("find user", err)
	}
	if u == nil {
		return ErrNotFound
	}
	if u.OTP == "" || u.OTP != otpCode {
		s.log.Warn("reset password: bad otp", zap.String("user_id", u.UserID))
		return ErrBadOTP
	}
	u.Password = utils.HashPassword(newPassword)
	u.OTP = ""
	if _, err := s.repo.Update(u); err != nil {
		return s.internal("update password", err)
	}
	s.log.Info("password reset", zap.String("user_id", u.UserID))
	return nil
}

func (s *UserService) ChangePassword(userID, current, newPassword, confirm string) error {
	u, err := s.repo.FindByUserID(userID)
	if err != nil {
		return s.internal("find user", err)
	}
	if u == nil {
		return ErrNotFound
	}
	if !utils.CheckPassword(current, u.Password) {
		return ErrBadCurrentPassword
	}
	if newPassword != confirm {
		return ErrPasswordMismatch
	}
	u.Password = utils.HashPassword(newPassword)
	if _, err := s.repo.Update(u); err != nil {
		return s.internal("update password", err)
	}
	return nil
}

func (s *UserService) sendOTPMail(name, email, code string) {
	s.dispatch(func() {
		if err := s.mailer.SendOTPEmail(name, email, code); err != nil {
			s.log.Error("send otp email failed", zap.String("email", email), zap.Error(err))
		}
	})
}

func (s *UserService) mapDup(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "unique") && !strings.Contains(msg, "duplicate") {
		return nil
	}
	if strings.Contains(msg, "mobile") {
		return ErrDuplicateMobile
	}
	if strings.Contains(msg, "email") {
		return ErrDuplicateEmail
	}
	return nil
}

func (s *UserService) internal(op string, err error) error {
	s.log.Error(op, zap.Error(err))
	return ErrInternal
}
