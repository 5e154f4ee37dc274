package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/notifyhq/notify-api/internal/handler"
	"github.com/notifyhq/notify-api/internal/model"
	notifsvc "github.com/notifyhq/notify-api/internal/service/notification"
)

const (
	ErrorWrongIDFormat       = "Wrong notification ID format"
	ErrorWrongClientIDFormat = "Wrong client ID format"
)

type Handler struct {
	service notifsvc.Service
}

func NewHandler(service notifsvc.Service) *Handler {
	return &Handler{service: service}
}

// RegisterPrivateRoutes wires the notification endpoints; all of them
// sit behind bearer auth.
func (h *Handler) RegisterPrivateRoutes(r *gin.RouterGroup) {
	r.GET("/notification/:id", h.Get)
	r.GET("/notifications", h.List)
	r.POST("/notification", h.Create)
	r.POST("/notification/batch", h.CreateBatch)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, http.StatusBadRequest, ErrorWrongIDFormat, "")
		return
	}

	n, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.FromError(c, err)
		return
	}

	handler.OK(c, n)
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	var clientID *uuid.UUID
	if raw := c.Query("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			handler.Error(c, http.StatusBadRequest, ErrorWrongClientIDFormat, "")
			return
		}
		clientID = &id
	}

	ns, err := h.service.List(c.Request.Context(), page, limit, clientID)
	if err != nil {
		handler.FromError(c, err)
		return
	}

	handler.OK(c, ns)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, http.StatusBadRequest, handler.ErrorWrongJSON, "")
		return
	}

	n, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.FromError(c, err)
		return
	}

	handler.OK(c, n)
}

func (h *Handler) CreateBatch(c *gin.Context) {
	var reqs []model.CreateNotificationRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		handler.Error(c, http.StatusBadRequest, handler.ErrorWrongJSON, "")
		return
	}

	ns, err := h.service.CreateBatch(c.Request.Context(), reqs)
	if err != nil {
		handler.FromError(c, err)
		return
	}

	handler.OK(c, ns)
}
