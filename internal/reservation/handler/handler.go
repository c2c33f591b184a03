package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rekafoe/newCRM-sub001/internal/api"
	"github.com/rekafoe/newCRM-sub001/internal/auth"
	"github.com/rekafoe/newCRM-sub001/internal/model"
	"github.com/rekafoe/newCRM-sub001/internal/reservation"
	"github.com/rekafoe/newCRM-sub001/internal/reservation/dto"
	"github.com/rekafoe/newCRM-sub001/pkg/logger"
)

type ReservationHandler struct {
	uc     reservation.UseCase
	logger logger.ZapLogger
}

func NewReservationHandler(uc reservation.UseCase, log logger.ZapLogger) *ReservationHandler {
	return &ReservationHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ReservationHandler) Create(c *gin.Context) {
	var input dto.CreateReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.ReservedBy = auth.UserIDPtr(c)

	res, err := h.uc.Create(c.Request.Context(), &input)
	if err != nil {
		api.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": res})
}

func (h *ReservationHandler) Fulfill(c *gin.Context) {
	res, err := h.uc.Fulfill(c.Request.Context(), c.Param("id"), auth.UserIDPtr(c))
	if err != nil {
		api.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": res})
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *ReservationHandler) Cancel(c *gin.Context) {
	var req cancelRequest
	// Body is optional for cancel.
	_ = c.ShouldBindJSON(&req)

	res, err := h.uc.Cancel(c.Request.Context(), c.Param("id"), req.Reason, auth.UserIDPtr(c))
	if err != nil {
		api.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *ReservationHandler) List(c *gin.Context) {
	filters := &dto.ReservationFilters{
		MaterialID: c.Query("material_id"),
		OrderID:    c.Query("order_id"),
		Status:     model.ReservationStatus(c.Query("status")),
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", 50),
	}

	items, count, err := h.uc.List(c.Request.Context(), filters)
	if err != nil {
		api.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "total": count})
}

func (h *ReservationHandler) Available(c *gin.Context) {
	available, err := h.uc.AvailableQuantity(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"material_id": c.Param("id"), "available_quantity": available}})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
