package recon

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/sales/internal/domain"
	"github.com/vladislavdragonenkov/sales/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/sales/internal/metrics"
)

// stockLine — одна корректировка остатка: товар и знаковое количество.
type stockLine struct {
	productID string
	qty       int64
}

func orderLines(items []domain.OrderItem) []stockLine {
	lines := make([]stockLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, stockLine{productID: item.ProductID, qty: item.Qty})
	}
	return lines
}

func returnLines(items []domain.ReturnItem) []stockLine {
	lines := make([]stockLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, stockLine{productID: item.ProductID, qty: item.Qty})
	}
	return lines
}

// adjustStock применяет знаковые корректировки остатков по списку позиций.
// Каждая позиция обрабатывается независимо: отсутствующий товар или отказ
// записи логируются, и цикл продолжается со следующей позицией.
func (e *Engine) adjustStock(lines []stockLine, sign int64) {
	for _, line := range lines {
		e.applyStockDelta(line.productID, sign*line.qty)
	}
}

// applyStockDelta применяет знаковое изменение остатка одного товара
// с нижней границей ноль.
func (e *Engine) applyStockDelta(productID string, delta int64) {
	if productID == "" || delta == 0 {
		return
	}

	unlock := e.productLocks.Lock(productID)
	defer unlock()

	product, err := e.products.Get(productID)
	if err != nil {
		// Товар мог быть удалён независимо от заказа; корректировка
		// вырождается в no-op, а не в ошибку всей операции.
		if domain.IsNotFound(err) {
			e.logger.WithField("product_id", productID).
				Warn("product missing, skipping stock adjustment")
			if e.metrics != nil {
				e.metrics.RecordSkipped(metrics.LedgerStock)
			}
			return
		}
		e.logger.WithError(err).WithField("product_id", productID).
			Error("failed to load product for stock adjustment")
		if e.metrics != nil {
			e.metrics.RecordFailure(metrics.LedgerStock)
		}
		return
	}

	newStock := product.Stock + delta
	if newStock < 0 {
		newStock = 0
	}

	if err := e.products.SetStock(productID, newStock); err != nil {
		e.logger.WithError(err).WithField("product_id", productID).
			Error("failed to update product stock")
		if e.metrics != nil {
			e.metrics.RecordFailure(metrics.LedgerStock)
		}
		return
	}

	e.logger.WithFields(log.Fields{
		"product_id": productID,
		"product":    product.Name,
		"old_stock":  product.Stock,
		"new_stock":  newStock,
		"delta":      delta,
	}).Info("stock adjusted")

	if e.metrics != nil {
		direction := metrics.DirectionIncrease
		if delta < 0 {
			direction = metrics.DirectionDecrease
		}
		e.metrics.RecordAdjustment(metrics.LedgerStock, direction)
	}

	e.publish(kafka.TopicLedgerEvents, productID,
		kafka.NewLedgerEvent(kafka.EventTypeStockAdjusted, productID, delta, newStock))
}

// applyCreditDelta применяет знаковое изменение баланса store credit
// покупателя с нижней границей ноль.
func (e *Engine) applyCreditDelta(customerID string, deltaMinor int64) {
	if customerID == "" || deltaMinor == 0 {
		return
	}

	unlock := e.customerLocks.Lock(customerID)
	defer unlock()

	customer, err := e.customers.Get(customerID)
	if err != nil {
		if domain.IsNotFound(err) {
			e.logger.WithField("customer_id", customerID).
				Warn("customer missing, skipping store credit adjustment")
			if e.metrics != nil {
				e.metrics.RecordSkipped(metrics.LedgerCredit)
			}
			return
		}
		e.logger.WithError(err).WithField("customer_id", customerID).
			Error("failed to load customer for store credit adjustment")
		if e.metrics != nil {
			e.metrics.RecordFailure(metrics.LedgerCredit)
		}
		return
	}

	newCredit := customer.StoreCreditMinor + deltaMinor
	if newCredit < 0 {
		newCredit = 0
	}

	if err := e.customers.SetStoreCredit(customerID, newCredit); err != nil {
		e.logger.WithError(err).WithField("customer_id", customerID).
			Error("failed to update store credit")
		if e.metrics != nil {
			e.metrics.RecordFailure(metrics.LedgerCredit)
		}
		return
	}

	e.logger.WithFields(log.Fields{
		"customer_id": customerID,
		"old_credit":  customer.StoreCreditMinor,
		"new_credit":  newCredit,
		"delta":       deltaMinor,
	}).Info("store credit adjusted")

	if e.metrics != nil {
		direction := metrics.DirectionIncrease
		if deltaMinor < 0 {
			direction = metrics.DirectionDecrease
		}
		e.metrics.RecordAdjustment(metrics.LedgerCredit, direction)
	}

	e.publish(kafka.TopicLedgerEvents, customerID,
		kafka.NewLedgerEvent(kafka.EventTypeCreditAdjusted, customerID, deltaMinor, newCredit))
}
