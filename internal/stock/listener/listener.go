package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rekafoe/newCRM-sub001/internal/composition"
	"github.com/rekafoe/newCRM-sub001/internal/model"
	"github.com/rekafoe/newCRM-sub001/internal/stock"
	"github.com/rekafoe/newCRM-sub001/internal/stock/dto"
	"github.com/rekafoe/newCRM-sub001/pkg/broker"
	"github.com/rekafoe/newCRM-sub001/pkg/logger"
	"go.uber.org/zap"
)

// StockListener consumes order events and auto-deducts materials for every
// line item of a freshly created order as one all-or-nothing batch.
type StockListener struct {
	consumer *broker.KafkaConsumer
	stock    stock.UseCase
	comp     composition.UseCase
	logger   logger.ZapLogger
}

func NewStockListener(consumer *broker.KafkaConsumer, stockUC stock.UseCase, compUC composition.UseCase, log logger.ZapLogger) *StockListener {
	return &StockListener{
		consumer: consumer,
		stock:    stockUC,
		comp:     compUC,
		logger:   log,
	}
}

func (l *StockListener) Start(ctx context.Context) {
	l.logger.Info("starting stock kafka listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("stopping stock kafka listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type OrderCreatedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID    string             `json:"id"`
	Items []OrderItemPayload `json:"items"`
}

type OrderItemPayload struct {
	ProductType string            `json:"product_type"`
	Description string            `json:"description"`
	Quantity    int               `json:"quantity"`
	Components  []model.Component `json:"components,omitempty"`
}

func (l *StockListener) processMessage(ctx context.Context, value []byte) {
	var event OrderCreatedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("failed to unmarshal event", zap.Error(err))
		return
	}

	if event.EventType != "OrderCreated" {
		return
	}

	l.logger.Info("processing OrderCreated event", zap.String("order_id", event.Payload.ID))

	ops, err := l.buildDeductions(ctx, &event.Payload)
	if err != nil {
		l.logger.Error("failed to resolve order compositions",
			zap.String("order_id", event.Payload.ID),
			zap.Error(err),
		)
		return
	}
	if len(ops) == 0 {
		// Every item was a zero-requirement item.
		return
	}

	if _, err := l.stock.ExecuteBatch(ctx, ops); err != nil {
		l.logger.Error("auto-deduction batch failed",
			zap.String("order_id", event.Payload.ID),
			zap.Error(err),
		)
	}
}

func (l *StockListener) buildDeductions(ctx context.Context, payload *OrderPayload) ([]dto.BatchOperation, error) {
	orderID := payload.ID
	var ops []dto.BatchOperation

	for _, item := range payload.Items {
		var components []model.Component
		var err error
		if len(item.Components) > 0 {
			components, err = l.comp.ResolveExplicit(ctx, item.Components)
		} else {
			components, err = l.comp.Resolve(ctx, item.ProductType, item.Description)
		}
		if err != nil {
			return nil, err
		}

		units := item.Quantity
		if units < 1 {
			units = 1
		}
		for _, c := range components {
			ops = append(ops, dto.BatchOperation{
				Type:       dto.BatchOpSpend,
				MaterialID: c.MaterialID,
				Quantity:   composition.Need(c.QtyPerUnit, units),
				Reason:     model.ReasonAutoDeduct,
				OrderID:    &orderID,
			})
		}
	}
	return ops, nil
}
