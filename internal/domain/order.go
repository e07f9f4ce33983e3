package domain

import "time"

// OrderStatus описывает жизненный цикл закупочного заказа.
type OrderStatus string

const (
	// OrderStatusPending — заказ оформлен, поставка ещё не началась.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusProcessing — заказ в обработке у поставщика.
	OrderStatusProcessing OrderStatus = "processing"
	// OrderStatusShipped — товары отгружены и находятся в пути.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered — товары приняты на склад; остатки увеличены.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled — заказ отменён до приёмки.
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Known сообщает, входит ли статус в допустимый набор.
func (s OrderStatus) Known() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// BooksStock сообщает, зачислены ли остатки по заказу в этом статусе.
// Приёмка товара происходит ровно на границе перехода в delivered.
func (s OrderStatus) BooksStock() bool {
	return s == OrderStatusDelivered
}

// OrderItem представляет одну позицию заказа.
type OrderItem struct {
	// ID позиции нужен для однозначной идентификации и аудита.
	ID string `json:"id"`
	// ProductID — идентификатор товара в каталоге.
	ProductID string `json:"product_id"`
	// Qty — количество единиц товара, строго положительное.
	Qty int64 `json:"quantity"`
	// PriceMinor — цена за единицу в минимальных денежных единицах.
	PriceMinor int64 `json:"price_minor"`
	// CreatedAt фиксирует момент добавления позиции в заказ.
	CreatedAt time.Time `json:"created_at"`
}

// Order агрегирует состояние закупочного заказа и его позиции.
type Order struct {
	ID          string      `json:"id"`
	CustomerID  string      `json:"customer_id"`
	Status      OrderStatus `json:"status"`
	Notes       string      `json:"notes,omitempty"`
	AmountMinor int64       `json:"amount_minor"`
	Items       []OrderItem `json:"items"`
	Version     int64       `json:"version"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if !o.Status.Known() {
		errs = append(errs, ErrOrderStatusInvalid)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}

	// Сверяем сумму заказа с суммой позиций: qty * price.
	var calc int64
	for _, item := range o.Items {
		if item.ProductID == "" {
			errs = append(errs, ErrItemProductRequired)
		}
		if item.Qty <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.PriceMinor < 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
		calc += item.Qty * item.PriceMinor
	}
	if calc != o.AmountMinor {
		errs = append(errs, ErrAmountMismatch)
	}

	return errs
}
