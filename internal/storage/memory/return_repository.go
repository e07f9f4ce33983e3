package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

// returnRepositoryInMemory — простая in-memory реализация ReturnRepository.
type returnRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Return
}

// NewReturnRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewReturnRepository() domain.ReturnRepository {
	return &returnRepositoryInMemory{
		items: make(map[string]domain.Return),
	}
}

// Create сохраняет новый возврат, если ID ещё не занят.
func (r *returnRepositoryInMemory) Create(ret domain.Return) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[ret.ID]; exists {
		return domain.ErrVersionConflict
	}
	ret.Items = copyReturnItems(ret.Items)
	r.items[ret.ID] = ret
	return nil
}

// Get возвращает возврат или ErrReturnNotFound, если его нет.
func (r *returnRepositoryInMemory) Get(id string) (domain.Return, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ret, ok := r.items[id]
	if !ok {
		return domain.Return{}, domain.ErrReturnNotFound
	}
	ret.Items = copyReturnItems(ret.Items)
	return ret, nil
}

// List возвращает возвраты, ограничивая выборку limit (если >0).
func (r *returnRepositoryInMemory) List(limit int) ([]domain.Return, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	returns := make([]domain.Return, 0, len(r.items))
	for _, ret := range r.items {
		ret.Items = copyReturnItems(ret.Items)
		returns = append(returns, ret)
	}
	sort.Slice(returns, func(i, j int) bool {
		if returns[i].CreatedAt.Equal(returns[j].CreatedAt) {
			return returns[i].ID < returns[j].ID
		}
		return returns[i].CreatedAt.After(returns[j].CreatedAt)
	})

	if limit > 0 && len(returns) > limit {
		returns = returns[:limit]
	}
	return returns, nil
}

// Save применяет обновления к возврату с учётом optimistic locking.
func (r *returnRepositoryInMemory) Save(ret domain.Return) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[ret.ID]
	if !ok {
		return domain.ErrReturnNotFound
	}
	if stored.Version != ret.Version {
		return domain.ErrVersionConflict
	}

	ret.Version++
	ret.Items = copyReturnItems(ret.Items)
	r.items[ret.ID] = ret
	return nil
}

// Delete удаляет возврат вместе с позициями.
func (r *returnRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrReturnNotFound
	}
	delete(r.items, id)
	return nil
}

func copyReturnItems(items []domain.ReturnItem) []domain.ReturnItem {
	copied := make([]domain.ReturnItem, len(items))
	copy(copied, items)
	return copied
}

var _ domain.ReturnRepository = (*returnRepositoryInMemory)(nil)
