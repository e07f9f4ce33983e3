package domain

import "time"

// Customer — покупатель с балансом store credit в минимальных денежных единицах.
// Баланс меняется только при возвратах со способом возмещения store_credit
// и не бывает отрицательным.
type Customer struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email,omitempty"`
	StoreCreditMinor int64     `json:"store_credit_minor"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ValidateInvariants проверяет базовые инварианты покупателя.
func (c *Customer) ValidateInvariants() []error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, ErrCustomerNameRequired)
	}
	if c.StoreCreditMinor < 0 {
		errs = append(errs, ErrStoreCreditNegative)
	}

	return errs
}
