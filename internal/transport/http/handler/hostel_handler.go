package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"pg-hostel-api/internal/service"
	httpez "pg-hostel-api/internal/transport/http/ez"
)

type HostelHandler struct {
	svc    *service.HostelService
	authMW gin.HandlerFunc
}

func NewHostelHandler(svc *service.HostelService, authMW gin.HandlerFunc) *HostelHandler {
	return &HostelHandler{svc: svc, authMW: authMW}
}

func (h *HostelHandler) MountAPI(api *gin.RouterGroup) {
	g := httpez.New(api.Group("/hostels", h.authMW))

	type createIn struct {
		Names    []string `json:"names" binding:"required"`
		IsActive bool     `json:"is_active"`
	}
	httpez.POST(g, "/", func(c *gin.Context, in createIn) (any, error) {
		if len(in.Names) == 0 {
			return nil, httpez.BadRequest("no hostel names provided")
		}
		hs, err := h.svc.Create(in.Names, in.IsActive)
		if err != nil {
			return nil, h.mapErr(err)
		}
		return gin.H{"message": "Hostels created successfully.", "hostels": hs}, nil
	})

	g.GET("/", func(c *gin.Context) (any, error) {
		skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		page, err := h.svc.ListActive(c.Request.Context(), skip, limit)
		if err != nil {
			return nil, h.mapErr(err)
		}
		return page, nil
	})

	g.GET("/:id", func(c *gin.Context) (any, error) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return nil, httpez.BadRequest("invalid hostel id")
		}
		hostel, err := h.svc.Get(id)
		if err != nil {
			return nil, h.mapErr(err)
		}
		return hostel, nil
	})

	type updateIn struct {
		Name     *string `json:"name"`
		IsActive *bool   `json:"is_active"`
	}
	httpez.PUT(g, "/:id", func(c *gin.Context, in updateIn) (any, error) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return nil, httpez.BadRequest("invalid hostel id")
		}
		hostel, err := h.svc.Update(id, in.Name, in.IsActive)
		if err != nil {
			return nil, h.mapErr(err)
		}
		return hostel, nil
	})

	// 软删除：记录保留，is_active 置 false
	g.DELETE("/:id", func(c *gin.Context) (any, error) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return nil, httpez.BadRequest("invalid hostel id")
		}
		hostel, err := h.svc.SoftDelete(id)
		if err != nil {
			return nil, h.mapErr(err)
		}
		return gin.H{"message": "Hostel deactivated.", "hostel": hostel}, nil
	})
}

func (h *HostelHandler) mapErr(err error) error {
	if errors.Is(err, service.ErrNotFound) {
		return httpez.NotFound("hostel not found")
	}
	return httpez.Internal("internal server error", err)
}
