package recon

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/sales/internal/domain"
	"github.com/vladislavdragonenkov/sales/internal/metrics"
)

// Engine — reconciliation-движок поверх трёх независимых ledger'ов:
// складских остатков, балансов store credit и самих записей заказов/возвратов.
//
// Движок гарантирует инварианты границы статусов: складские и кредитные
// эффекты заказа/возврата применены тогда и только тогда, когда его текущий
// сохранённый статус входит в активный набор (delivered для заказов,
// approved/completed для возвратов).
//
// Корректировки ledger'ов — best-effort: отказ по одной позиции логируется
// и не прерывает обработку остальных позиций и основную запись. Между
// ledger'ами нет транзакций; записи сериализуются по ключу товара/покупателя.
type Engine struct {
	products  domain.ProductRepository
	customers domain.CustomerRepository
	orders    domain.OrderRepository
	returns   domain.ReturnRepository

	// publisher может быть nil — тогда события не публикуются.
	publisher domain.EventPublisher
	metrics   *metrics.ReconMetrics
	logger    *log.Entry

	productLocks  *keyedMutex
	customerLocks *keyedMutex
}

// NewEngine конструирует движок с зависимостями.
func NewEngine(
	products domain.ProductRepository,
	customers domain.CustomerRepository,
	orders domain.OrderRepository,
	returns domain.ReturnRepository,
	publisher domain.EventPublisher,
	reconMetrics *metrics.ReconMetrics,
	logger *log.Entry,
) *Engine {
	if logger == nil {
		logger = log.New().WithField("component", "recon-engine")
	}
	return &Engine{
		products:      products,
		customers:     customers,
		orders:        orders,
		returns:       returns,
		publisher:     publisher,
		metrics:       reconMetrics,
		logger:        logger,
		productLocks:  newKeyedMutex(),
		customerLocks: newKeyedMutex(),
	}
}

// publish отправляет событие best-effort: ошибка публикации логируется
// и не влияет на исход операции.
func (e *Engine) publish(topic, key string, event interface{}) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(topic, key, event); err != nil {
		e.logger.WithError(err).WithFields(log.Fields{
			"topic": topic,
			"key":   key,
		}).Warn("failed to publish event")
		return
	}
	if e.metrics != nil {
		e.metrics.RecordEventPublished()
	}
}
