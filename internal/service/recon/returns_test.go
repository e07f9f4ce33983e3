package recon_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/sales/internal/domain"
	"github.com/vladislavdragonenkov/sales/internal/service/recon"
)

func returnStatus(s domain.ReturnStatus) *domain.ReturnStatus { return &s }

func refundMethod(m domain.RefundMethod) *domain.RefundMethod { return &m }

func TestReturnLifecycle_StoreCreditInvariant(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 0)
	f.seedCustomer(t, "c1", 0)

	// Возврат сразу completed: товары на склад, кредит на баланс.
	ret, err := f.engine.CreateReturn(recon.ReturnInput{
		CustomerID:        "c1",
		Status:            domain.ReturnStatusCompleted,
		Items:             []recon.ReturnItemInput{{ProductID: "p1", Qty: 2}},
		RefundMethod:      domain.RefundMethodStoreCredit,
		RefundAmountMinor: 2000,
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, f.stock(t, "p1"))
	require.EqualValues(t, 2000, f.credit(t, "c1"))

	// Удаление возврата снимает оба эффекта.
	require.NoError(t, f.engine.DeleteReturn(ret.ID))
	require.EqualValues(t, 0, f.stock(t, "p1"))
	require.EqualValues(t, 0, f.credit(t, "c1"))
}

func TestCreateReturn_PendingHasNoEffects(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 5)
	f.seedCustomer(t, "c1", 100)

	_, err := f.engine.CreateReturn(recon.ReturnInput{
		CustomerID:        "c1",
		Items:             []recon.ReturnItemInput{{ProductID: "p1", Qty: 3}},
		RefundMethod:      domain.RefundMethodStoreCredit,
		RefundAmountMinor: 500,
	})
	require.NoError(t, err)
	require.EqualValues(t, 5, f.stock(t, "p1"))
	require.EqualValues(t, 100, f.credit(t, "c1"))
}

func TestUpdateReturn_IntoActiveFallsBackToStoredItems(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 0)
	f.seedCustomer(t, "c1", 0)

	ret, err := f.engine.CreateReturn(recon.ReturnInput{
		CustomerID:        "c1",
		Items:             []recon.ReturnItemInput{{ProductID: "p1", Qty: 4}},
		RefundMethod:      domain.RefundMethodStoreCredit,
		RefundAmountMinor: 1500,
	})
	require.NoError(t, err)

	// Патч без позиций: приходуются сохранённые позиции и действующие
	// реквизиты возмещения.
	_, err = f.engine.UpdateReturn(ret.ID, recon.ReturnPatch{
		Status: returnStatus(domain.ReturnStatusApproved),
	})
	require.NoError(t, err)
	require.EqualValues(t, 4, f.stock(t, "p1"))
	require.EqualValues(t, 1500, f.credit(t, "c1"))
}

func TestUpdateReturn_PatchOverridesRefundFields(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 0)
	f.seedCustomer(t, "c1", 0)

	ret, err := f.engine.CreateReturn(recon.ReturnInput{
		CustomerID:        "c1",
		Items:             []recon.ReturnItemInput{{ProductID: "p1", Qty: 1}},
		RefundMethod:      domain.RefundMethodCash,
		RefundAmountMinor: 700,
	})
	require.NoError(t, err)

	amount := int64(900)
	_, err = f.engine.UpdateReturn(ret.ID, recon.ReturnPatch{
		Status:            returnStatus(domain.ReturnStatusCompleted),
		RefundMethod:      refundMethod(domain.RefundMethodStoreCredit),
		RefundAmountMinor: &amount,
	})
	require.NoError(t, err)
	require.EqualValues(t, 900, f.credit(t, "c1"))
}

func TestUpdateReturn_OutOfActiveReversesBothLedgers(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 0)
	f.seedCustomer(t, "c1", 0)

	ret, err := f.engine.CreateReturn(recon.ReturnInput{
		CustomerID:        "c1",
		Status:            domain.ReturnStatusApproved,
		Items:             []recon.ReturnItemInput{{ProductID: "p1", Qty: 3}},
		RefundMethod:      domain.RefundMethodStoreCredit,
		RefundAmountMinor: 1200,
	})
	require.NoError(t, err)
	require.EqualValues(t, 3, f.stock(t, "p1"))
	require.EqualValues(t, 1200, f.credit(t, "c1"))

	// approved -> rejected списывает то, что было зачислено.
	_, err = f.engine.UpdateReturn(ret.ID, recon.ReturnPatch{
		Status: returnStatus(domain.ReturnStatusRejected),
	})
	require.NoError(t, err)
	require.EqualValues(t, 0, f.stock(t, "p1"))
	require.EqualValues(t, 0, f.credit(t, "c1"))
}

func TestUpdateReturn_ActiveToActiveNoDeltas(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 0)
	f.seedCustomer(t, "c1", 0)

	ret, err := f.engine.CreateReturn(recon.ReturnInput{
		CustomerID:        "c1",
		Status:            domain.ReturnStatusApproved,
		Items:             []recon.ReturnItemInput{{ProductID: "p1", Qty: 2}},
		RefundMethod:      domain.RefundMethodStoreCredit,
		RefundAmountMinor: 800,
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, f.stock(t, "p1"))
	require.EqualValues(t, 800, f.credit(t, "c1"))

	// approved -> completed остаётся внутри активного набора: эффекты не дублируются.
	_, err = f.engine.UpdateReturn(ret.ID, recon.ReturnPatch{
		Status: returnStatus(domain.ReturnStatusCompleted),
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, f.stock(t, "p1"))
	require.EqualValues(t, 800, f.credit(t, "c1"))
}

func TestDeleteReturn_CreditFlooredAtZero(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 0)
	f.seedCustomer(t, "c1", 0)

	ret, err := f.engine.CreateReturn(recon.ReturnInput{
		CustomerID:        "c1",
		Status:            domain.ReturnStatusCompleted,
		Items:             []recon.ReturnItemInput{{ProductID: "p1", Qty: 1}},
		RefundMethod:      domain.RefundMethodStoreCredit,
		RefundAmountMinor: 2000,
	})
	require.NoError(t, err)
	require.EqualValues(t, 2000, f.credit(t, "c1"))

	// Покупатель успел потратить часть кредита.
	require.NoError(t, f.customers.SetStoreCredit("c1", 500))

	// Снятие 2000 упирается в пол: 0, а не -1500.
	require.NoError(t, f.engine.DeleteReturn(ret.ID))
	require.EqualValues(t, 0, f.credit(t, "c1"))
}

func TestCashRefund_DoesNotTouchCredit(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 0)
	f.seedCustomer(t, "c1", 300)

	_, err := f.engine.CreateReturn(recon.ReturnInput{
		CustomerID:        "c1",
		Status:            domain.ReturnStatusCompleted,
		Items:             []recon.ReturnItemInput{{ProductID: "p1", Qty: 1}},
		RefundMethod:      domain.RefundMethodCash,
		RefundAmountMinor: 999,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, f.stock(t, "p1"))
	require.EqualValues(t, 300, f.credit(t, "c1"))
}

func TestCreateReturn_MissingCustomerSkipsCredit(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "p1", 0)
	// Покупатель c-ghost отсутствует: кредит пропускается, склад приходуется.

	_, err := f.engine.CreateReturn(recon.ReturnInput{
		CustomerID:        "c-ghost",
		Status:            domain.ReturnStatusCompleted,
		Items:             []recon.ReturnItemInput{{ProductID: "p1", Qty: 2}},
		RefundMethod:      domain.RefundMethodStoreCredit,
		RefundAmountMinor: 100,
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, f.stock(t, "p1"))
}

func TestUpdateReturn_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.UpdateReturn("missing", recon.ReturnPatch{
		Status: returnStatus(domain.ReturnStatusApproved),
	})
	require.ErrorIs(t, err, domain.ErrReturnNotFound)

	require.ErrorIs(t, f.engine.DeleteReturn("missing"), domain.ErrReturnNotFound)
}
