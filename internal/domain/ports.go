package domain

// EventPublisher публикует доменные события во внешнюю шину.
// Публикация — best-effort: ошибка публикации не влияет на исход операции.
type EventPublisher interface {
	// Publish отправляет событие в указанный topic с ключом партиционирования.
	Publish(topic string, key string, event interface{}) error
}
