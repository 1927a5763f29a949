package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwulff/campuscast/internal/console"
	"github.com/jwulff/campuscast/internal/domain"
	"github.com/jwulff/campuscast/internal/textgen"
)

type loginRequest struct {
	Passphrase string `json:"passphrase" binding:"required"`
}

type groupRequest struct {
	Group domain.DeviceGroup `json:"group" binding:"required"`
}

type noticeRequest struct {
	Text   string `json:"text"`
	Urgent bool   `json:"urgent"`
}

type draftRequest struct {
	Topic string       `json:"topic" binding:"required"`
	Tone  textgen.Tone `json:"tone"`
}

type refineRequest struct {
	Text string `json:"text" binding:"required"`
}

type textResponse struct {
	Text string `json:"text"`
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		Fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (h *handler) login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}
	user, err := h.svc.Login(c.Request.Context(), req.Passphrase)
	if err != nil {
		FailErr(c, err)
		return
	}
	Success(c, user)
}

func (h *handler) logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context()); err != nil {
		FailErr(c, err)
		return
	}
	Success(c, nil)
}

func (h *handler) session(c *gin.Context) {
	user, err := h.svc.CurrentUser(c.Request.Context())
	if err != nil {
		FailErr(c, err)
		return
	}
	if user == nil {
		Success(c, domain.User{})
		return
	}
	Success(c, user)
}

func (h *handler) stats(c *gin.Context) {
	st, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		FailErr(c, err)
		return
	}
	Success(c, st)
}

func (h *handler) listDevices(c *gin.Context) {
	devices, err := h.svc.ListDevices(c.Request.Context())
	if err != nil {
		FailErr(c, err)
		return
	}
	Success(c, devices)
}

func (h *handler) registerDevice(c *gin.Context) {
	var req console.DeviceInput
	if !bind(c, &req) {
		return
	}
	device, err := h.svc.RegisterDevice(c.Request.Context(), req)
	if err != nil {
		FailErr(c, err)
		return
	}
	Created(c, device)
}

func (h *handler) updateDeviceGroup(c *gin.Context) {
	var req groupRequest
	if !bind(c, &req) {
		return
	}
	if err := h.svc.UpdateDeviceGroup(c.Request.Context(), c.Param("id"), req.Group); err != nil {
		FailErr(c, err)
		return
	}
	Success(c, nil)
}

func (h *handler) listContent(c *gin.Context) {
	items, err := h.svc.ListContent(c.Request.Context())
	if err != nil {
		FailErr(c, err)
		return
	}
	Success(c, items)
}

func (h *handler) addContent(c *gin.Context) {
	var req console.ContentInput
	if !bind(c, &req) {
		return
	}
	item, err := h.svc.AddContent(c.Request.Context(), req)
	if err != nil {
		FailErr(c, err)
		return
	}
	Created(c, item)
}

func (h *handler) removeContent(c *gin.Context) {
	if err := h.svc.RemoveContent(c.Request.Context(), c.Param("id")); err != nil {
		FailErr(c, err)
		return
	}
	Success(c, nil)
}

func (h *handler) listNotices(c *gin.Context) {
	notices, err := h.svc.ListNotices(c.Request.Context())
	if err != nil {
		FailErr(c, err)
		return
	}
	Success(c, notices)
}

func (h *handler) addNotice(c *gin.Context) {
	var req noticeRequest
	if !bind(c, &req) {
		return
	}
	n, err := h.svc.AddNotice(c.Request.Context(), req.Text, req.Urgent)
	if err != nil {
		FailErr(c, err)
		return
	}
	Created(c, n)
}

func (h *handler) toggleNotice(c *gin.Context) {
	n, err := h.svc.ToggleNotice(c.Request.Context(), c.Param("id"))
	if err != nil {
		FailErr(c, err)
		return
	}
	Success(c, n)
}

func (h *handler) deleteNotice(c *gin.Context) {
	if err := h.svc.DeleteNotice(c.Request.Context(), c.Param("id")); err != nil {
		FailErr(c, err)
		return
	}
	Success(c, nil)
}

func (h *handler) draftNotice(c *gin.Context) {
	var req draftRequest
	if !bind(c, &req) {
		return
	}
	Success(c, textResponse{Text: h.svc.DraftNotice(c.Request.Context(), req.Topic, req.Tone)})
}

func (h *handler) refineText(c *gin.Context) {
	var req refineRequest
	if !bind(c, &req) {
		return
	}
	Success(c, textResponse{Text: h.svc.RefineText(c.Request.Context(), req.Text)})
}
