// Package ez 轻封装：handler 只返回 (data, error)，
// 这里统一做 JSON 绑定和错误映射。
package ez

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	resp "pg-hostel-api/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// 统一错误对象（配合 resp.Error(int, msg)）
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

func render(c *gin.Context, data any, err error) {
	if err != nil {
		var ae *AErr
		if errors.As(err, &ae) {
			c.JSON(http.StatusOK, resp.Error(ae.Code, ae.Error()))
			return
		}
		c.JSON(http.StatusOK, resp.Error(resp.CodeServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp.OK(data))
}

func (e EZ) GET(path string, h func(c *gin.Context) (any, error)) {
	e.g.GET(path, func(c *gin.Context) {
		data, err := h(c)
		render(c, data, err)
	})
}

// POSTRaw 不绑定，handler 自己从 c.Param / c.PostForm 取
func (e EZ) POSTRaw(path string, h func(c *gin.Context) (any, error)) {
	e.g.POST(path, func(c *gin.Context) {
		data, err := h(c)
		render(c, data, err)
	})
}

func (e EZ) PUTRaw(path string, h func(c *gin.Context) (any, error)) {
	e.g.PUT(path, func(c *gin.Context) {
		data, err := h(c)
		render(c, data, err)
	})
}

func (e EZ) DELETE(path string, h func(c *gin.Context) (any, error)) {
	e.g.DELETE(path, func(c *gin.Context) {
		data, err := h(c)
		render(c, data, err)
	})
}

func POST[T any](e EZ, path string, h func(c *gin.Context, in T) (any, error)) {
	e.g.POST(path, func(c *gin.Context) {
		var in T
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		data, err := h(c, in)
		render(c, data, err)
	})
}

func PUT[T any](e EZ, path string, h func(c *gin.Context, in T) (any, error)) {
	e.g.PUT(path, func(c *gin.Context) {
		var in T
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, err.Error()))
			return
		}
		data, err := h(c, in)
		render(c, data, err)
	})
}
