package domain

// ProductRepository описывает требования к хранилищу каталога товаров.
type ProductRepository interface {
	// Create сохраняет новый товар. Возвращает ошибку, если запись с таким ID уже существует.
	Create(product Product) error
	// Get возвращает товар по идентификатору или ErrProductNotFound, если его нет.
	Get(id string) (Product, error)
	// List возвращает товары каталога с опциональным ограничением на количество.
	List(limit int) ([]Product, error)
	// SetStock записывает новый складской остаток товара.
	SetStock(id string, stock int64) error
}

// CustomerRepository описывает требования к хранилищу покупателей.
type CustomerRepository interface {
	Create(customer Customer) error
	Get(id string) (Customer, error)
	List(limit int) ([]Customer, error)
	// SetStoreCredit записывает новый баланс store credit покупателя.
	SetStoreCredit(id string, creditMinor int64) error
}

// OrderRepository описывает требования к хранилищу закупочных заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ. Возвращает ошибку, если запись с таким ID уже существует.
	Create(order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(id string) (Order, error)
	// List возвращает заказы с опциональным ограничением на количество.
	List(limit int) ([]Order, error)
	// Save применяет обновления к заказу с учётом optimistic locking.
	Save(order Order) error
	// Delete удаляет заказ вместе с позициями.
	Delete(id string) error
}

// ReturnRepository описывает требования к хранилищу возвратов.
type ReturnRepository interface {
	Create(ret Return) error
	Get(id string) (Return, error)
	List(limit int) ([]Return, error)
	Save(ret Return) error
	Delete(id string) error
}
