package recon_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/sales/internal/domain"
	"github.com/vladislavdragonenkov/sales/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/sales/internal/service/recon"
)

func orderStatus(s domain.OrderStatus) *domain.OrderStatus { return &s }

func TestOrderLifecycle_StockInvariant(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 10)

	// Создание в pending остатки не трогает.
	order, err := f.engine.CreateOrder(recon.OrderInput{
		CustomerID: "c1",
		Status:     domain.OrderStatusPending,
		Items:      []recon.OrderItemInput{{ProductID: "p1", Qty: 5, PriceMinor: 100}},
	})
	require.NoError(t, err)
	require.EqualValues(t, 10, f.stock(t, "p1"))

	// Переход в delivered приходует входящие позиции.
	order, err = f.engine.UpdateOrder(order.ID, recon.OrderPatch{
		Status: orderStatus(domain.OrderStatusDelivered),
		Items:  []recon.OrderItemInput{{ProductID: "p1", Qty: 5, PriceMinor: 100}},
	})
	require.NoError(t, err)
	require.EqualValues(t, 15, f.stock(t, "p1"))
	require.Equal(t, domain.OrderStatusDelivered, order.Status)

	// Обратный переход списывает позиции сохранённой записи.
	order, err = f.engine.UpdateOrder(order.ID, recon.OrderPatch{
		Status: orderStatus(domain.OrderStatusShipped),
	})
	require.NoError(t, err)
	require.EqualValues(t, 10, f.stock(t, "p1"))

	// Удаление вне delivered остатки больше не меняет.
	require.NoError(t, f.engine.DeleteOrder(order.ID))
	require.EqualValues(t, 10, f.stock(t, "p1"))

	_, err = f.engine.GetOrder(order.ID)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestCreateOrder_DeliveredBooksStock(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 1)

	_, err := f.engine.CreateOrder(recon.OrderInput{
		CustomerID: "c1",
		Status:     domain.OrderStatusDelivered,
		Items:      []recon.OrderItemInput{{ProductID: "p1", Qty: 4, PriceMinor: 100}},
	})
	require.NoError(t, err)
	require.EqualValues(t, 5, f.stock(t, "p1"))
}

func TestDeleteOrder_DeliveredReversesStock(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 0)

	order, err := f.engine.CreateOrder(recon.OrderInput{
		CustomerID: "c1",
		Status:     domain.OrderStatusDelivered,
		Items:      []recon.OrderItemInput{{ProductID: "p1", Qty: 4, PriceMinor: 100}},
	})
	require.NoError(t, err)
	require.EqualValues(t, 4, f.stock(t, "p1"))

	require.NoError(t, f.engine.DeleteOrder(order.ID))
	require.EqualValues(t, 0, f.stock(t, "p1"))
}

func TestUpdateOrder_NoBoundaryCrossingNoDeltas(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 0)

	order, err := f.engine.CreateOrder(recon.OrderInput{
		CustomerID: "c1",
		Status:     domain.OrderStatusDelivered,
		Items:      []recon.OrderItemInput{{ProductID: "p1", Qty: 5, PriceMinor: 100}},
	})
	require.NoError(t, err)
	require.EqualValues(t, 5, f.stock(t, "p1"))

	// delivered -> delivered с правкой заметок — нулевые дельты.
	notes := "received at warehouse B"
	_, err = f.engine.UpdateOrder(order.ID, recon.OrderPatch{
		Status: orderStatus(domain.OrderStatusDelivered),
		Notes:  &notes,
	})
	require.NoError(t, err)
	require.EqualValues(t, 5, f.stock(t, "p1"))
}

func TestUpdateOrder_PendingEditsNeverTouchStock(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 7)

	order, err := f.engine.CreateOrder(recon.OrderInput{
		CustomerID: "c1",
		Items:      []recon.OrderItemInput{{ProductID: "p1", Qty: 5, PriceMinor: 100}},
	})
	require.NoError(t, err)

	// Несколько правок без пересечения границы delivered.
	notes := "call before delivery"
	_, err = f.engine.UpdateOrder(order.ID, recon.OrderPatch{Notes: &notes})
	require.NoError(t, err)

	_, err = f.engine.UpdateOrder(order.ID, recon.OrderPatch{
		Status: orderStatus(domain.OrderStatusProcessing),
		Items:  []recon.OrderItemInput{{ProductID: "p1", Qty: 9, PriceMinor: 100}},
	})
	require.NoError(t, err)

	require.EqualValues(t, 7, f.stock(t, "p1"))
}

func TestUpdateOrder_TransitionWithoutItemsBooksNothing(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 3)

	order, err := f.engine.CreateOrder(recon.OrderInput{
		CustomerID: "c1",
		Items:      []recon.OrderItemInput{{ProductID: "p1", Qty: 5, PriceMinor: 100}},
	})
	require.NoError(t, err)

	// Смена статуса без item-списка ничего не приходует.
	_, err = f.engine.UpdateOrder(order.ID, recon.OrderPatch{
		Status: orderStatus(domain.OrderStatusDelivered),
	})
	require.NoError(t, err)
	require.EqualValues(t, 3, f.stock(t, "p1"))
}

func TestUpdateOrder_ReverseDeltaFlooredAtZero(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 0)

	order, err := f.engine.CreateOrder(recon.OrderInput{
		CustomerID: "c1",
		Status:     domain.OrderStatusDelivered,
		Items:      []recon.OrderItemInput{{ProductID: "p1", Qty: 5, PriceMinor: 100}},
	})
	require.NoError(t, err)
	require.EqualValues(t, 5, f.stock(t, "p1"))

	// Остаток ушёл вниз независимо от заказа (продажи).
	require.NoError(t, f.products.SetStock("p1", 2))

	// Реверс на -5 упирается в пол: 0, а не -3.
	_, err = f.engine.UpdateOrder(order.ID, recon.OrderPatch{
		Status: orderStatus(domain.OrderStatusCancelled),
	})
	require.NoError(t, err)
	require.EqualValues(t, 0, f.stock(t, "p1"))
}

func TestCreateOrder_PartialFailureIsolation(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 0)
	// p-ghost в каталоге отсутствует.

	_, err := f.engine.CreateOrder(recon.OrderInput{
		CustomerID: "c1",
		Status:     domain.OrderStatusDelivered,
		Items: []recon.OrderItemInput{
			{ProductID: "p1", Qty: 3, PriceMinor: 100},
			{ProductID: "p-ghost", Qty: 2, PriceMinor: 100},
		},
	})
	require.NoError(t, err)
	// Отсутствующий товар не блокирует корректировку существующего.
	require.EqualValues(t, 3, f.stock(t, "p1"))
}

func TestUpdateOrder_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.UpdateOrder("missing", recon.OrderPatch{
		Status: orderStatus(domain.OrderStatusDelivered),
	})
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestCreateOrder_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.CreateOrder(recon.OrderInput{
		Items: []recon.OrderItemInput{{ProductID: "p1", Qty: 0, PriceMinor: -5}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOrderEventsPublished(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 0)

	order, err := f.engine.CreateOrder(recon.OrderInput{
		CustomerID: "c1",
		Status:     domain.OrderStatusDelivered,
		Items:      []recon.OrderItemInput{{ProductID: "p1", Qty: 1, PriceMinor: 100}},
	})
	require.NoError(t, err)
	require.NoError(t, f.engine.DeleteOrder(order.ID))

	// created + deleted в order topic, по одной корректировке остатка на каждую операцию.
	require.Equal(t, 2, f.publisher.count(kafka.TopicOrderEvents))
	require.Equal(t, 2, f.publisher.count(kafka.TopicLedgerEvents))
}
