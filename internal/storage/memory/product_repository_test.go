package memory_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/sales/internal/domain"
	"github.com/vladislavdragonenkov/sales/internal/storage/memory"
)

func TestProductRepository_CreateGetSetStock(t *testing.T) {
	repo := memory.NewProductRepository()
	product := domain.Product{
		ID:        "product-1",
		SKU:       "sku-1",
		Name:      "Keyboard",
		Stock:     10,
		CreatedAt: time.Now().UTC(),
	}

	if err := repo.Create(product); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.SetStock(product.ID, 15); err != nil {
		t.Fatalf("set stock failed: %v", err)
	}

	stored, err := repo.Get(product.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Stock != 15 {
		t.Fatalf("expected stock 15, got %d", stored.Stock)
	}
}

func TestProductRepository_SetStockNotFound(t *testing.T) {
	repo := memory.NewProductRepository()

	if err := repo.SetStock("missing", 5); err != domain.ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCustomerRepository_SetStoreCredit(t *testing.T) {
	repo := memory.NewCustomerRepository()
	customer := domain.Customer{
		ID:        "customer-1",
		Name:      "Alex",
		CreatedAt: time.Now().UTC(),
	}

	if err := repo.Create(customer); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.SetStoreCredit(customer.ID, 2000); err != nil {
		t.Fatalf("set store credit failed: %v", err)
	}

	stored, err := repo.Get(customer.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.StoreCreditMinor != 2000 {
		t.Fatalf("expected credit 2000, got %d", stored.StoreCreditMinor)
	}
}

func TestCustomerRepository_GetNotFound(t *testing.T) {
	repo := memory.NewCustomerRepository()

	if _, err := repo.Get("missing"); err != domain.ErrCustomerNotFound {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}
