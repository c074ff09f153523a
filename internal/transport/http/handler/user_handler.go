package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"pg-hostel-api/internal/domain"
	"pg-hostel-api/internal/service"
	httpez "pg-hostel-api/internal/transport/http/ez"
)

type UserHandler struct {
	svc       *service.UserService
	authMW    gin.HandlerFunc
	mediaBase string // 头像 URL 前缀，如 http://host:port/media/profile_images
	maxUpload int64
}

func NewUserHandler(svc *service.UserService, authMW gin.HandlerFunc, mediaBase string, maxUpload int64) *UserHandler {
	if maxUpload <= 0 {
		maxUpload = 1 << 20
	}
	return &UserHandler{svc: svc, authMW: authMW, mediaBase: mediaBase, maxUpload: maxUpload}
}

func (h *UserHandler) MountAPI(api *gin.RouterGroup) {
	g := api.Group("/newuserregister")
	pub := httpez.New(g)

	type registerIn struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Mobile   string `json:"mobile" binding:"required"`
		Password string `json:"password" binding:"required"`
		UserRole string `json:"user_role" binding:"required"`
	}
	httpez.POST(pub, "/", func(c *gin.Context, in registerIn) (any, error) {
		u, err := h.svc.Register(service.RegisterInput{
			Name:     in.Name,
			Email:    in.Email,
			Mobile:   in.Mobile,
			Password: in.Password,
			UserRole: in.UserRole,
		})
		if err != nil {
			return nil, h.mapErr(err)
		}
		return gin.H{
			"message":       "User registered successfully. Please verify OTP sent to your email.",
			"access_token":  u.AccessToken,
			"refresh_token": u.RefreshToken,
			"user_data":     h.publicUser(u),
		}, nil
	})

	type verifyIn struct {
		ID  int64  `json:"id" binding:"required"`
		OTP string `json:"otp" binding:"required"`
	}
	httpez.POST(pub, "/verify-otp", func(c *gin.Context, in verifyIn) (any, error) {
		u, err := h.svc.VerifyOTP(in.ID, in.OTP)
		if err != nil {
			return nil, h.mapErr(err)
		}
		return gin.H{
			"message":       "User verified successfully and activated.",
			"access_token":  u.AccessToken,
			"refresh_token": u.RefreshToken,
			"user_data":     h.publicUser(u),
		}, nil
	})

	type resendIn struct {
		ID int64 `json:"id" binding:"required"`
	}
	httpez.POST(pub, "/resend-otp", func(c *gin.Context, in resendIn) (any, error) {
		u, err := h.svc.ResendOTP(in.ID)
		if err != nil {
			return nil, h.mapErr(err)
		}
		return gin.H{
			"message":   "New OTP sent to your email.",
			"user_data": h.publicUser(u),
		}, nil
	})

	type loginIn struct {
		Identifier string `json:"identifier" binding:"required"` // 邮箱或手机号
		Password   string `json:"password" binding:"required"`
	}
	httpez.POST(pub, "/login", func(c *gin.Context, in loginIn) (any, error) {
		u, err := h.svc.Login(in.Identifier, in.Password)
		if err != nil {
			// 三种失败对外同一句话，避免账号枚举
			switch {
			case errors.Is(err, service.ErrNotFound),
				errors.Is(err, service.ErrInvalidPassword),
				errors.Is(err, service.ErrInactive):
				return nil, httpez.Unauthorized("invalid credentials")
			}
			return nil, h.mapErr(err)
		}
		return gin.H{
			"message":       "Login successful.",
			"access_token":  u.AccessToken,
			"refresh_token": u.RefreshToken,
			"user_data":     h.publicUser(u),
		}, nil
	})

	type refreshIn struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	httpez.POST(pub, "/token/refresh", func(c *gin.Context, in refreshIn) (any, error) {
		u, err := h.svc.Refresh(in.RefreshToken)
		if err != nil {
			return nil, h.mapErr(err)
		}
		return gin.H{
			"message":       "Access token refreshed successfully.",
			"access_token":  u.AccessToken,
			"refresh_token": u.RefreshToken,
			"token_type":    "bearer",
		}, nil
	})

	type forgotIn struct {
		Identifier string `json:"identifier" binding:"required"`
	}
	httpez.POST(pub, "/forget-password", func(c *gin.Context, in forgotIn) (any, error) {
		if err := h.svc.RequestPasswordReset(in.Identifier); err != nil {
			return nil, h.mapErr(err)
		}
		return gin.H{"message": "Password reset code sent to your email."}, nil
	})

	type resetIn struct {
		Identifier  string `json:"identifier" binding:"required"`
		OTP         string `json:"otp" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	httpez.POST(pub, "/reset-password", func(c *gin.Context, in resetIn) (any, error) {
		if err := h.svc.ResetPassword(in.Identifier, in.OTP, in.NewPassword); err != nil {
			return nil, h.mapErr(err)
		}
		return gin.H{"message": "Password reset successfully."}, nil
	})

	// 以下路由要求有效的未吊销 access token
	prot := httpez.New(api.Group("/newuserregister", h.authMW))

	prot.GET("/me", func(c *gin.Context) (any, error) {
		u, err := h.svc.Me(c.GetString("userId"))
		if err != nil {
			return nil, h.mapErr(err)
		}
		return gin.H{"message": "User details fetched successfully.", "user_data": h.publicUser(u)}, nil
	})

	prot.PUTRaw("/update_me", h.updateMe)

	prot.POSTRaw("/logout", func(c *gin.Context) (any, error) {
		if err := h.svc.Logout(c.GetString("accessToken")); err != nil {
			return nil, h.mapErr(err)
		}
		return gin.H{"message": "Logged out successfully"}, nil
	})

	type changeIn struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
		ConfirmPassword string `json:"confirm_password" binding:"required"`
	}
	httpez.POST(prot, "/change-password", func(c *gin.Context, in changeIn) (any, error) {
		err := h.svc.ChangePassword(c.GetString("userId"), in.CurrentPassword, in.NewPassword, in.ConfirmPassword)
		if err != nil {
			return nil, h.mapErr(err)
		}
		return gin.H{"message": "Password changed successfully."}, nil
	})
}

// updateMe multipart 表单：文本字段可选，带 profile_image 则换头像
func (h *UserHandler) updateMe(c *gin.Context) (any, error) {
	in := service.UpdateProfileInput{}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, httpez.BadRequest("invalid multipart form: " + err.Error())
	}
	strField := func(key string) *string {
		if vs, ok := form.Value[key]; ok && len(vs) > 0 {
			v := vs[0]
			return &v
		}
		return nil
	}
	in.Name = strField("name")
	in.Bio = strField("bio")
	in.Email = strField("email")
	in.Mobile = strField("mobile")
	if v := strField("is_active"); v != nil {
		b, err := strconv.ParseBool(*v)
		if err != nil {
			return nil, httpez.BadRequest("is_active must be a boolean")
		}
		in.IsActive = &b
	}

	if fhs, ok := form.File["profile_image"]; ok && len(fhs) > 0 {
		fh := fhs[0]
		if fh.Size > h.maxUpload {
			return nil, httpez.BadRequest("profile image too large")
		}
		f, err := fh.Open()
		if err != nil {
			return nil, httpez.BadRequest("cannot read profile image")
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, h.maxUpload+1))
		if err != nil {
			return nil, httpez.BadRequest("cannot read profile image")
		}
		if int64(len(data)) > h.maxUpload {
			return nil, httpez.BadRequest("profile image too large")
		}
		in.Image = &service.ImageUpload{Filename: fh.Filename, Data: data}
	}

	u, err := h.svc.UpdateProfile(c.GetString("userId"), in)
	if err != nil {
		return nil, h.mapErr(err)
	}
	return gin.H{"message": "User details updated successfully.", "user_data": h.publicUser(u)}, nil
}

func (h *UserHandler) publicUser(u *domain.User) gin.H {
	var img any
	if u.ProfileImage != "" {
		img = h.mediaBase + "/" + u.ProfileImage
	}
	return gin.H{
		"id":            u.ID,
		"user_id":       u.UserID,
		"name":          u.Name,
		"profile_image": img,
		"user_role":     u.UserRole,
		"bio":           u.Bio,
		"email":         u.Email,
		"mobile":        u.Mobile,
		"is_active":     u.IsActive,
		"verified_at":   u.VerifiedAt,
		"created_on":    u.CreatedOn,
		"updated_on":    u.UpdatedOn,
	}
}

func (h *UserHandler) mapErr(err error) error {
	switch {
	case errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, service.ErrDuplicateMobile),
		errors.Is(err, service.ErrInvalidOTP),
		errors.Is(err, service.ErrBadOTP),
		errors.Is(err, service.ErrAlreadyActive),
		errors.Is(err, service.ErrImageTooLarge),
		errors.Is(err, service.ErrBadCurrentPassword),
		errors.Is(err, service.ErrPasswordMismatch):
		return httpez.BadRequest(err.Error())
	case errors.Is(err, service.ErrNotFound):
		return httpez.NotFound("user not found")
	case errors.Is(err, service.ErrInactive):
		return httpez.Forbidden("user account is inactive")
	case errors.Is(err, service.ErrTokenExpired):
		return httpez.Unauthorized("token expired")
	case errors.Is(err, service.ErrTokenInvalid):
		return httpez.Unauthorized("invalid token")
	default:
		return httpez.Internal("internal server error", err)
	}
}
