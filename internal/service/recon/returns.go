package recon

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/sales/internal/domain"
	"github.com/vladislavdragonenkov/sales/internal/messaging/kafka"
)

const (
	opReturnCreate = "return_create"
	opReturnUpdate = "return_update"
	opReturnDelete = "return_delete"
)

// ReturnItemInput — возвращаемая позиция на входе движка.
type ReturnItemInput struct {
	ProductID string
	Qty       int64
}

// ReturnInput — данные для создания возврата.
type ReturnInput struct {
	OrderID           string
	CustomerID        string
	Status            domain.ReturnStatus
	Items             []ReturnItemInput
	RefundMethod      domain.RefundMethod
	RefundAmountMinor int64
	Reason            string
}

// ReturnPatch — частичное обновление возврата. Nil-поля остаются без
// изменений; nil-срез Items означает "позиции не менялись".
type ReturnPatch struct {
	Status            *domain.ReturnStatus
	Items             []ReturnItemInput
	RefundMethod      *domain.RefundMethod
	RefundAmountMinor *int64
	CustomerID        *string
	Reason            *string
}

// CreateReturn сохраняет новый возврат. Если возврат создаётся сразу в
// активном статусе (approved или completed), возвращённые товары зачисляются
// на склад, а при возмещении store credit баланс покупателя увеличивается.
func (e *Engine) CreateReturn(in ReturnInput) (domain.Return, error) {
	defer e.observe(opReturnCreate, time.Now())

	status := in.Status
	if status == "" {
		status = domain.ReturnStatusPending
	}

	now := time.Now().UTC()
	ret := domain.Return{
		ID:                uuid.NewString(),
		OrderID:           in.OrderID,
		CustomerID:        in.CustomerID,
		Status:            status,
		Items:             buildReturnItems(in.Items, now),
		RefundMethod:      in.RefundMethod,
		RefundAmountMinor: in.RefundAmountMinor,
		Reason:            in.Reason,
		Version:           0,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if errs := ret.ValidateInvariants(); len(errs) > 0 {
		return domain.Return{}, invalidInput(errs)
	}

	if err := e.returns.Create(ret); err != nil {
		e.logger.WithError(err).Error("failed to create return")
		return domain.Return{}, fmt.Errorf("create return: %w", err)
	}

	if ret.Status.BooksLedgers() {
		e.adjustStock(returnLines(ret.Items), +1)
		if ret.RefundMethod == domain.RefundMethodStoreCredit {
			e.applyCreditDelta(ret.CustomerID, ret.RefundAmountMinor)
		}
	}

	e.publish(kafka.TopicReturnEvents, ret.ID,
		kafka.NewReturnEvent(kafka.EventTypeReturnCreated, ret.ID, ret.CustomerID, string(ret.Status)))

	return ret, nil
}

// UpdateReturn применяет частичное обновление к возврату и выполняет
// корректировки на границе активного набора статусов {approved, completed}:
//   - переход в активный статус зачисляет остатки по позициям из патча
//     (или, если их нет, по сохранённым) и при действующем способе
//     возмещения store_credit пополняет баланс покупателя;
//   - переход из активного статуса симметрично списывает остатки и баланс
//     по данным исходной записи (балансы не уходят ниже нуля).
func (e *Engine) UpdateReturn(id string, patch ReturnPatch) (domain.Return, error) {
	defer e.observe(opReturnUpdate, time.Now())

	original, err := e.returns.Get(id)
	if err != nil {
		return domain.Return{}, err
	}

	newStatus := original.Status
	if patch.Status != nil {
		if !patch.Status.Known() {
			return domain.Return{}, invalidInput([]error{domain.ErrReturnStatusInvalid})
		}
		newStatus = *patch.Status
	}

	now := time.Now().UTC()
	updated := original
	updated.Status = newStatus
	if patch.CustomerID != nil {
		updated.CustomerID = *patch.CustomerID
	}
	if patch.RefundMethod != nil {
		updated.RefundMethod = *patch.RefundMethod
	}
	if patch.RefundAmountMinor != nil {
		updated.RefundAmountMinor = *patch.RefundAmountMinor
	}
	if patch.Reason != nil {
		updated.Reason = *patch.Reason
	}
	if patch.Items != nil {
		updated.Items = buildReturnItems(patch.Items, now)
	}
	updated.UpdatedAt = now

	if errs := updated.ValidateInvariants(); len(errs) > 0 {
		return domain.Return{}, invalidInput(errs)
	}

	switch {
	case !original.Status.BooksLedgers() && newStatus.BooksLedgers():
		// Эффективные позиции и реквизиты возмещения: из патча, если заданы,
		// иначе из исходной записи.
		e.adjustStock(returnLines(updated.Items), +1)
		if updated.RefundMethod == domain.RefundMethodStoreCredit {
			e.applyCreditDelta(updated.CustomerID, updated.RefundAmountMinor)
		}
	case original.Status.BooksLedgers() && !newStatus.BooksLedgers():
		// Обратный переход списывает ровно то, что было зачислено.
		e.adjustStock(returnLines(original.Items), -1)
		if original.RefundMethod == domain.RefundMethodStoreCredit {
			e.applyCreditDelta(original.CustomerID, -original.RefundAmountMinor)
		}
	}

	if err := e.returns.Save(updated); err != nil {
		e.logger.WithError(err).WithField("return_id", id).Error("failed to save return")
		if domain.IsNotFound(err) || domain.IsVersionConflict(err) {
			return domain.Return{}, err
		}
		return domain.Return{}, fmt.Errorf("save return: %w", err)
	}

	saved, err := e.returns.Get(id)
	if err != nil {
		return domain.Return{}, err
	}

	e.publish(kafka.TopicReturnEvents, saved.ID,
		kafka.NewReturnEvent(kafka.EventTypeReturnUpdated, saved.ID, saved.CustomerID, string(saved.Status)))

	return saved, nil
}

// DeleteReturn удаляет возврат. Если возврат находился в активном статусе,
// зачисленные остатки списываются обратно, а возмещение store credit
// снимается с баланса покупателя (не ниже нуля).
func (e *Engine) DeleteReturn(id string) error {
	defer e.observe(opReturnDelete, time.Now())

	ret, err := e.returns.Get(id)
	if err != nil {
		return err
	}

	if ret.Status.BooksLedgers() {
		e.adjustStock(returnLines(ret.Items), -1)
		if ret.RefundMethod == domain.RefundMethodStoreCredit {
			e.applyCreditDelta(ret.CustomerID, -ret.RefundAmountMinor)
		}
	}

	if err := e.returns.Delete(id); err != nil {
		e.logger.WithError(err).WithField("return_id", id).Error("failed to delete return")
		return fmt.Errorf("delete return: %w", err)
	}

	e.publish(kafka.TopicReturnEvents, ret.ID,
		kafka.NewReturnEvent(kafka.EventTypeReturnDeleted, ret.ID, ret.CustomerID, string(ret.Status)))

	return nil
}

// GetReturn возвращает возврат по идентификатору.
func (e *Engine) GetReturn(id string) (domain.Return, error) {
	return e.returns.Get(id)
}

// ListReturns возвращает возвраты с ограничением на количество.
func (e *Engine) ListReturns(limit int) ([]domain.Return, error) {
	return e.returns.List(limit)
}

// buildReturnItems превращает входные позиции в доменные.
func buildReturnItems(inputs []ReturnItemInput, now time.Time) []domain.ReturnItem {
	items := make([]domain.ReturnItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, domain.ReturnItem{
			ID:        uuid.NewString(),
			ProductID: in.ProductID,
			Qty:       in.Qty,
			CreatedAt: now,
		})
	}
	return items
}
