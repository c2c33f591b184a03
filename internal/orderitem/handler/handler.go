package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rekafoe/newCRM-sub001/internal/api"
	"github.com/rekafoe/newCRM-sub001/internal/auth"
	"github.com/rekafoe/newCRM-sub001/internal/orderitem"
	"github.com/rekafoe/newCRM-sub001/internal/orderitem/dto"
	"github.com/rekafoe/newCRM-sub001/pkg/logger"
)

type OrderItemHandler struct {
	uc     orderitem.UseCase
	logger logger.ZapLogger
}

func NewOrderItemHandler(uc orderitem.UseCase, log logger.ZapLogger) *OrderItemHandler {
	return &OrderItemHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *OrderItemHandler) AddItem(c *gin.Context) {
	var input dto.AddLineItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input.OrderID = c.Param("orderID")
	input.UserID = auth.UserIDPtr(c)

	item, err := h.uc.AddItem(c.Request.Context(), &input)
	if err != nil {
		api.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": item})
}

func (h *OrderItemHandler) UpdateItem(c *gin.Context) {
	var patch dto.LineItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.uc.UpdateItem(c.Request.Context(), &dto.UpdateLineItemInput{
		ID:     c.Param("id"),
		Patch:  patch,
		UserID: auth.UserIDPtr(c),
	})
	if err != nil {
		api.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (h *OrderItemHandler) DeleteItem(c *gin.Context) {
	err := h.uc.DeleteItem(c.Request.Context(), c.Param("id"), auth.UserIDPtr(c))
	if err != nil {
		api.RespondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *OrderItemHandler) ListItems(c *gin.Context) {
	items, err := h.uc.ListItems(c.Request.Context(), c.Param("orderID"))
	if err != nil {
		api.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}
