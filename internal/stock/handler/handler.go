package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rekafoe/newCRM-sub001/internal/api"
	"github.com/rekafoe/newCRM-sub001/internal/auth"
	"github.com/rekafoe/newCRM-sub001/internal/model"
	"github.com/rekafoe/newCRM-sub001/internal/stock"
	"github.com/rekafoe/newCRM-sub001/internal/stock/dto"
	"github.com/rekafoe/newCRM-sub001/pkg/logger"
)

type StockHandler struct {
	uc     stock.UseCase
	logger logger.ZapLogger
}

func NewStockHandler(uc stock.UseCase, log logger.ZapLogger) *StockHandler {
	return &StockHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *StockHandler) CreateMaterial(c *gin.Context) {
	var input dto.CreateMaterialInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.uc.CreateMaterial(c.Request.Context(), &input)
	if err != nil {
		api.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": m})
}

func (h *StockHandler) GetMaterial(c *gin.Context) {
	m, err := h.uc.GetMaterial(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": m})
}

func (h *StockHandler) ListMaterials(c *gin.Context) {
	filters := &dto.MaterialFilters{
		Name:     c.Query("name"),
		LowStock: c.Query("low_stock") == "true",
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 50),
	}

	items, count, err := h.uc.ListMaterials(c.Request.Context(), filters)
	if err != nil {
		api.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "total": count})
}

type adjustRequest struct {
	Delta   float64          `json:"delta" binding:"required"`
	Reason  model.MoveReason `json:"reason"`
	OrderID *string          `json:"order_id,omitempty"`
}

func (h *StockHandler) Adjust(c *gin.Context) {
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reason := req.Reason
	if reason == "" {
		reason = model.ReasonManualAdjust
	}

	mv, err := h.uc.Adjust(c.Request.Context(), &dto.AdjustStockInput{
		MaterialID: c.Param("id"),
		Delta:      req.Delta,
		Reason:     reason,
		OrderID:    req.OrderID,
		UserID:     auth.UserIDPtr(c),
	})
	if err != nil {
		api.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": mv})
}

type setQuantityRequest struct {
	NewQuantity float64 `json:"new_quantity" binding:"gte=0"`
}

func (h *StockHandler) SetQuantity(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mv, err := h.uc.SetQuantity(c.Request.Context(), &dto.SetQuantityInput{
		MaterialID:  c.Param("id"),
		NewQuantity: req.NewQuantity,
		UserID:      auth.UserIDPtr(c),
	})
	if err != nil {
		api.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": mv})
}

func (h *StockHandler) ListMoves(c *gin.Context) {
	filters := &dto.MoveFilters{
		MaterialID: c.Param("id"),
		Reason:     model.MoveReason(c.Query("reason")),
		OrderID:    c.Query("order_id"),
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", 50),
	}

	moves, count, err := h.uc.ListMoves(c.Request.Context(), filters)
	if err != nil {
		api.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": moves, "total": count})
}

type batchRequest struct {
	Operations []dto.BatchOperation `json:"operations" binding:"required"`
}

func (h *StockHandler) ExecuteBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := auth.UserIDPtr(c)
	for i := range req.Operations {
		if req.Operations[i].UserID == nil {
			req.Operations[i].UserID = userID
		}
	}

	moves, err := h.uc.ExecuteBatch(c.Request.Context(), req.Operations)
	if err != nil {
		api.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": moves})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
