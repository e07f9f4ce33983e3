package domain

import "time"

// ReturnStatus описывает жизненный цикл возврата от покупателя.
type ReturnStatus string

const (
	// ReturnStatusPending — возврат зарегистрирован, но не рассмотрен.
	ReturnStatusPending ReturnStatus = "pending"
	// ReturnStatusApproved — возврат одобрен; товары приняты обратно.
	ReturnStatusApproved ReturnStatus = "approved"
	// ReturnStatusCompleted — возврат завершён, возмещение выплачено.
	ReturnStatusCompleted ReturnStatus = "completed"
	// ReturnStatusRejected — возврат отклонён, товары не принимаются.
	ReturnStatusRejected ReturnStatus = "rejected"
)

// Known сообщает, входит ли статус в допустимый набор.
func (s ReturnStatus) Known() bool {
	switch s {
	case ReturnStatusPending, ReturnStatusApproved,
		ReturnStatusCompleted, ReturnStatusRejected:
		return true
	}
	return false
}

// BooksLedgers сообщает, применены ли складские и кредитные эффекты
// возврата в этом статусе. Активны оба статуса: approved и completed.
func (s ReturnStatus) BooksLedgers() bool {
	return s == ReturnStatusApproved || s == ReturnStatusCompleted
}

// RefundMethod задаёт способ возмещения по возврату.
type RefundMethod string

const (
	// RefundMethodStoreCredit — возмещение зачисляется на баланс покупателя.
	RefundMethodStoreCredit RefundMethod = "store_credit"
	// RefundMethodCash — возмещение наличными, баланс не затрагивается.
	RefundMethodCash RefundMethod = "cash"
	// RefundMethodOther — прочие способы (перевод, обмен и т.п.).
	RefundMethodOther RefundMethod = "other"
)

// Known сообщает, входит ли способ возмещения в допустимый набор.
func (m RefundMethod) Known() bool {
	switch m {
	case RefundMethodStoreCredit, RefundMethodCash, RefundMethodOther:
		return true
	}
	return false
}

// ReturnItem представляет одну возвращаемую позицию.
type ReturnItem struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Qty       int64     `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// Return агрегирует состояние возврата и его позиции.
type Return struct {
	ID                string       `json:"id"`
	OrderID           string       `json:"order_id,omitempty"`
	CustomerID        string       `json:"customer_id"`
	Status            ReturnStatus `json:"status"`
	Items             []ReturnItem `json:"items"`
	RefundMethod      RefundMethod `json:"refund_method"`
	RefundAmountMinor int64        `json:"refund_amount_minor"`
	Reason            string       `json:"reason,omitempty"`
	Version           int64        `json:"version"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// ValidateInvariants проверяет базовые инварианты возврата и возвращает список замечаний.
func (r *Return) ValidateInvariants() []error {
	var errs []error

	if r.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if !r.Status.Known() {
		errs = append(errs, ErrReturnStatusInvalid)
	}
	if len(r.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if !r.RefundMethod.Known() {
		errs = append(errs, ErrRefundMethodInvalid)
	}
	if r.RefundAmountMinor < 0 {
		errs = append(errs, ErrRefundAmountNegative)
	}

	for _, item := range r.Items {
		if item.ProductID == "" {
			errs = append(errs, ErrItemProductRequired)
		}
		if item.Qty <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
	}

	return errs
}
