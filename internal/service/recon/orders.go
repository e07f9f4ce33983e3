package recon

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/sales/internal/domain"
	"github.com/vladislavdragonenkov/sales/internal/messaging/kafka"
)

// Названия операций для метрик движка.
const (
	opOrderCreate = "order_create"
	opOrderUpdate = "order_update"
	opOrderDelete = "order_delete"
)

// OrderItemInput — позиция заказа на входе движка.
type OrderItemInput struct {
	ProductID  string
	Qty        int64
	PriceMinor int64
}

// OrderInput — данные для создания заказа.
type OrderInput struct {
	CustomerID string
	Status     domain.OrderStatus
	Notes      string
	Items      []OrderItemInput
}

// OrderPatch — частичное обновление заказа. Nil-поля остаются без изменений;
// nil-срез Items означает "позиции не менялись".
type OrderPatch struct {
	Status *domain.OrderStatus
	Notes  *string
	Items  []OrderItemInput
}

// CreateOrder сохраняет новый заказ. Если заказ создаётся сразу в статусе
// delivered, остатки по его позициям зачисляются на склад.
func (e *Engine) CreateOrder(in OrderInput) (domain.Order, error) {
	defer e.observe(opOrderCreate, time.Now())

	status := in.Status
	if status == "" {
		status = domain.OrderStatusPending
	}

	now := time.Now().UTC()
	items, amount := buildOrderItems(in.Items, now)

	order := domain.Order{
		ID:          uuid.NewString(),
		CustomerID:  in.CustomerID,
		Status:      status,
		Notes:       in.Notes,
		AmountMinor: amount,
		Items:       items,
		Version:     0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, invalidInput(errs)
	}

	if err := e.orders.Create(order); err != nil {
		e.logger.WithError(err).Error("failed to create order")
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	// Приёмка на склад — после сохранения основной записи, как best-effort.
	if order.Status.BooksStock() {
		e.adjustStock(orderLines(order.Items), +1)
	}

	e.publish(kafka.TopicOrderEvents, order.ID,
		kafka.NewOrderEvent(kafka.EventTypeOrderCreated, order.ID, order.CustomerID, string(order.Status)))

	return order, nil
}

// UpdateOrder применяет частичное обновление к заказу и выполняет складские
// корректировки на границе статуса delivered:
//   - переход в delivered зачисляет остатки по входящему списку позиций
//     (приёмка фиксирует фактически полученное, а не сохранённое ранее);
//   - переход из delivered списывает остатки по позициям исходной записи.
//
// Обновление без пересечения границы остатков не затрагивает.
func (e *Engine) UpdateOrder(id string, patch OrderPatch) (domain.Order, error) {
	defer e.observe(opOrderUpdate, time.Now())

	original, err := e.orders.Get(id)
	if err != nil {
		return domain.Order{}, err
	}

	newStatus := original.Status
	if patch.Status != nil {
		if !patch.Status.Known() {
			return domain.Order{}, invalidInput([]error{domain.ErrOrderStatusInvalid})
		}
		newStatus = *patch.Status
	}

	now := time.Now().UTC()
	var newItems []domain.OrderItem
	var newAmount int64
	if patch.Items != nil {
		newItems, newAmount = buildOrderItems(patch.Items, now)
	}

	updated := original
	updated.Status = newStatus
	if patch.Notes != nil {
		updated.Notes = *patch.Notes
	}
	if patch.Items != nil {
		updated.Items = newItems
		updated.AmountMinor = newAmount
	}
	updated.UpdatedAt = now

	if errs := updated.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, invalidInput(errs)
	}

	// Складские эффекты применяются до записи, в порядке исходной реализации.
	switch {
	case !original.Status.BooksStock() && newStatus.BooksStock():
		// Зачисляются только явно переданные позиции: переход статуса без
		// item-списка ничего не приходует.
		e.adjustStock(orderLines(newItems), +1)
	case original.Status.BooksStock() && !newStatus.BooksStock():
		e.adjustStock(orderLines(original.Items), -1)
	}

	if err := e.orders.Save(updated); err != nil {
		e.logger.WithError(err).WithField("order_id", id).Error("failed to save order")
		if domain.IsNotFound(err) || domain.IsVersionConflict(err) {
			return domain.Order{}, err
		}
		return domain.Order{}, fmt.Errorf("save order: %w", err)
	}

	saved, err := e.orders.Get(id)
	if err != nil {
		return domain.Order{}, err
	}

	e.publish(kafka.TopicOrderEvents, saved.ID,
		kafka.NewOrderEvent(kafka.EventTypeOrderUpdated, saved.ID, saved.CustomerID, string(saved.Status)))

	return saved, nil
}

// DeleteOrder удаляет заказ. Если заказ находился в статусе delivered,
// ранее зачисленные остатки списываются обратно.
func (e *Engine) DeleteOrder(id string) error {
	defer e.observe(opOrderDelete, time.Now())

	order, err := e.orders.Get(id)
	if err != nil {
		return err
	}

	if order.Status.BooksStock() {
		e.adjustStock(orderLines(order.Items), -1)
	}

	if err := e.orders.Delete(id); err != nil {
		e.logger.WithError(err).WithField("order_id", id).Error("failed to delete order")
		return fmt.Errorf("delete order: %w", err)
	}

	e.publish(kafka.TopicOrderEvents, order.ID,
		kafka.NewOrderEvent(kafka.EventTypeOrderDeleted, order.ID, order.CustomerID, string(order.Status)))

	return nil
}

// GetOrder возвращает заказ по идентификатору.
func (e *Engine) GetOrder(id string) (domain.Order, error) {
	return e.orders.Get(id)
}

// ListOrders возвращает заказы с ограничением на количество.
func (e *Engine) ListOrders(limit int) ([]domain.Order, error) {
	return e.orders.List(limit)
}

// buildOrderItems превращает входные позиции в доменные и считает сумму заказа.
func buildOrderItems(inputs []OrderItemInput, now time.Time) ([]domain.OrderItem, int64) {
	items := make([]domain.OrderItem, 0, len(inputs))
	var amount int64
	for _, in := range inputs {
		items = append(items, domain.OrderItem{
			ID:         uuid.NewString(),
			ProductID:  in.ProductID,
			Qty:        in.Qty,
			PriceMinor: in.PriceMinor,
			CreatedAt:  now,
		})
		amount += in.Qty * in.PriceMinor
	}
	return items, amount
}

// observe записывает длительность операции, если метрики подключены.
func (e *Engine) observe(operation string, start time.Time) {
	if e.metrics != nil {
		e.metrics.RecordDuration(operation, time.Since(start))
	}
}

func invalidInput(errs []error) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, joinErrors(errs))
}

func joinErrors(errs []error) string {
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}
