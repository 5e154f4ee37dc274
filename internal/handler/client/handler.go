package client

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/notifyhq/notify-api/internal/handler"
	"github.com/notifyhq/notify-api/internal/model"
	clientsvc "github.com/notifyhq/notify-api/internal/service/client"
)

const ErrorWrongIDFormat = "Wrong client ID format"

type Handler struct {
	service clientsvc.Service
}

func NewHandler(service clientsvc.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the public client endpoints.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/client", h.Create)
	r.GET("/client/:id", h.Get)
	r.PATCH("/client/:id", h.Update)
	r.DELETE("/client/:id", h.Delete)
}

// RegisterPrivateRoutes wires the endpoints behind bearer auth.
func (h *Handler) RegisterPrivateRoutes(r *gin.RouterGroup) {
	r.GET("/clients", h.List)
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	clients, err := h.service.List(c.Request.Context(), page, limit)
	if err != nil {
		handler.FromError(c, err)
		return
	}

	handler.OK(c, clients)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, http.StatusBadRequest, handler.ErrorWrongJSON, "")
		return
	}

	client, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.FromError(c, err)
		return
	}

	handler.OK(c, client)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, http.StatusBadRequest, ErrorWrongIDFormat, "")
		return
	}

	client, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.FromError(c, err)
		return
	}

	handler.OK(c, client)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, http.StatusBadRequest, ErrorWrongIDFormat, "")
		return
	}

	var req model.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, http.StatusBadRequest, handler.ErrorWrongJSON, "")
		return
	}

	client, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		handler.FromError(c, err)
		return
	}

	handler.OK(c, client)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, http.StatusBadRequest, ErrorWrongIDFormat, "")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		handler.FromError(c, err)
		return
	}

	handler.OK(c, nil)
}
