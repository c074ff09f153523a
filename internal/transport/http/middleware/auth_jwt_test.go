package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"pg-hostel-api/internal/core/auth"
	resp "pg-hostel-api/internal/transport/http/response"
)

func newAuthRig(t *testing.T) (*gin.Engine, *auth.JWTer, *auth.Blacklist) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	j := &auth.JWTer{
		Secret:     []byte("test-secret"),
		Issuer:     "pg-hostel-api",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}
	bl := auth.NewBlacklist()
	r := gin.New()
	r.GET("/protected", AuthJWT(j, bl), func(c *gin.Context) {
		c.JSON(http.StatusOK, resp.OK(gin.H{"userId": c.GetString("userId")}))
	})
	return r, j, bl
}

func call(t *testing.T, r *gin.Engine, token string) resp.Resp {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out resp.Resp
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestAuthJWTAcceptsValidToken(t *testing.T) {
	r, j, _ := newAuthRig(t)
	tok, _ := j.IssueAccess("user_1")

	out := call(t, r, tok)
	if out.Code != resp.CodeOK {
		t.Fatalf("code = %d, want OK", out.Code)
	}
}

func TestAuthJWTRejectsMissingAndInvalid(t *testing.T) {
	r, j, _ := newAuthRig(t)

	if out := call(t, r, ""); out.Code != resp.CodeUnauthorized {
		t.Fatalf("missing token: code = %d", out.Code)
	}
	if out := call(t, r, "garbage"); out.Code != resp.CodeUnauthorized {
		t.Fatalf("garbage token: code = %d", out.Code)
	}

	// refresh token 不能过 access 检查
	rt, _ := j.IssueRefresh("user_1")
	if out := call(t, r, rt); out.Code != resp.CodeUnauthorized {
		t.Fatalf("refresh-as-access: code = %d", out.Code)
	}
}

func TestAuthJWTDistinguishesExpired(t *testing.T) {
	r, j, _ := newAuthRig(t)
	j2 := &auth.JWTer{Secret: j.Secret, Issuer: j.Issuer, AccessTTL: -time.Minute}
	tok, _ := j2.IssueAccess("user_1")

	out := call(t, r, tok)
	if out.Code != resp.CodeUnauthorized || out.Msg != "token expired" {
		t.Fatalf("expired token: code = %d, msg = %q", out.Code, out.Msg)
	}
}

func TestAuthJWTRejectsBlacklisted(t *testing.T) {
	r, j, bl := newAuthRig(t)
	tok, _ := j.IssueAccess("user_1")
	other, _ := j.IssueAccess("user_1")

	bl.Add(tok, time.Now().Add(30*time.Minute))

	if out := call(t, r, tok); out.Code != resp.CodeUnauthorized || out.Msg != "token revoked" {
		t.Fatalf("revoked token must be rejected, got code=%d msg=%q", out.Code, out.Msg)
	}
	// 同一用户的另一枚令牌不受影响
	if out := call(t, r, other); out.Code != resp.CodeOK {
		t.Fatalf("distinct token must keep working, code = %d", out.Code)
	}
}
