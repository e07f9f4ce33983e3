package recon_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/sales/internal/domain"
	"github.com/vladislavdragonenkov/sales/internal/service/recon"
	"github.com/vladislavdragonenkov/sales/internal/storage/memory"
)

// fixture собирает движок поверх in-memory хранилищ.
type fixture struct {
	engine    *recon.Engine
	products  domain.ProductRepository
	customers domain.CustomerRepository
	orders    domain.OrderRepository
	returns   domain.ReturnRepository
	publisher *capturePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		products:  memory.NewProductRepository(),
		customers: memory.NewCustomerRepository(),
		orders:    memory.NewOrderRepository(),
		returns:   memory.NewReturnRepository(),
		publisher: &capturePublisher{},
	}
	f.engine = recon.NewEngine(
		f.products, f.customers, f.orders, f.returns,
		f.publisher, nil, loggerForTests(),
	)
	return f
}

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: false, DisableTimestamp: true})
	logger.SetLevel(logrus.DebugLevel)
	return logger.WithField("component", "test")
}

func (f *fixture) seedProduct(t *testing.T, id string, stock int64) {
	t.Helper()
	require.NoError(t, f.products.Create(domain.Product{ID: id, Name: "product " + id, Stock: stock}))
}

func (f *fixture) seedCustomer(t *testing.T, id string, creditMinor int64) {
	t.Helper()
	require.NoError(t, f.customers.Create(domain.Customer{ID: id, Name: "customer " + id, StoreCreditMinor: creditMinor}))
}

func (f *fixture) stock(t *testing.T, productID string) int64 {
	t.Helper()
	product, err := f.products.Get(productID)
	require.NoError(t, err)
	return product.Stock
}

func (f *fixture) credit(t *testing.T, customerID string) int64 {
	t.Helper()
	customer, err := f.customers.Get(customerID)
	require.NoError(t, err)
	return customer.StoreCreditMinor
}

// capturePublisher записывает публикации; опционально возвращает ошибку.
type capturePublisher struct {
	mu     sync.Mutex
	topics []string
	fail   bool
}

func (p *capturePublisher) Publish(topic, _ string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.topics = append(p.topics, topic)
	return nil
}

func (p *capturePublisher) count(topic string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, t := range p.topics {
		if t == topic {
			n++
		}
	}
	return n
}

func TestEngine_NilPublisher(t *testing.T) {
	f := newFixture(t)
	f.engine = recon.NewEngine(f.products, f.customers, f.orders, f.returns, nil, nil, loggerForTests())
	f.seedProduct(t, "p1", 0)

	_, err := f.engine.CreateOrder(recon.OrderInput{
		CustomerID: "c1",
		Status:     domain.OrderStatusDelivered,
		Items:      []recon.OrderItemInput{{ProductID: "p1", Qty: 3, PriceMinor: 100}},
	})
	require.NoError(t, err)
	require.EqualValues(t, 3, f.stock(t, "p1"))
}

func TestEngine_PublishFailureDoesNotFailOperation(t *testing.T) {
	f := newFixture(t)
	f.publisher.fail = true
	f.seedProduct(t, "p1", 0)

	order, err := f.engine.CreateOrder(recon.OrderInput{
		CustomerID: "c1",
		Status:     domain.OrderStatusDelivered,
		Items:      []recon.OrderItemInput{{ProductID: "p1", Qty: 2, PriceMinor: 50}},
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, f.stock(t, "p1"))

	stored, err := f.orders.Get(order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusDelivered, stored.Status)
}
