package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rekafoe/newCRM-sub001/internal/model"
	"github.com/rekafoe/newCRM-sub001/pkg/logger"
	"go.uber.org/zap"
)

// RespondError maps engine errors to HTTP statuses. Stock conflicts carry
// enough detail for the caller to see which material or batch operation
// failed without inspecting the ledger.
func RespondError(c *gin.Context, log logger.ZapLogger, err error) {
	var insufficient *model.InsufficientStockError
	var invalid *model.InvalidInputError
	var batchErr *model.BatchOpError

	switch {
	case errors.Is(err, model.ErrMaterialNotFound),
		errors.Is(err, model.ErrLineItemNotFound),
		errors.Is(err, model.ErrReservationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.As(err, &batchErr):
		body := gin.H{"error": batchErr.Error(), "operation_index": batchErr.Index}
		if errors.As(batchErr.Err, &insufficient) {
			body["material_id"] = insufficient.MaterialID
		}
		status := http.StatusConflict
		if errors.As(batchErr.Err, &invalid) {
			status = http.StatusBadRequest
		}
		c.JSON(status, body)

	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, gin.H{
			"error":       insufficient.Error(),
			"material_id": insufficient.MaterialID,
		})

	case errors.Is(err, model.ErrReservationNotActive):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})

	default:
		log.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
