package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

type returnRepository struct {
	db *sql.DB
}

// NewReturnRepository создаёт PostgreSQL-реализацию ReturnRepository.
func NewReturnRepository(store *Store) domain.ReturnRepository {
	return &returnRepository{db: store.DB()}
}

func (r *returnRepository) Create(ret domain.Return) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO returns (
			id, order_id, customer_id, status, refund_method,
			refund_amount_minor, reason, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		ret.ID, ret.OrderID, ret.CustomerID, string(ret.Status), string(ret.RefundMethod),
		ret.RefundAmountMinor, ret.Reason, ret.Version, ret.CreatedAt, ret.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrVersionConflict
		}
		return fmt.Errorf("insert return: %w", err)
	}

	if err = insertReturnItems(ctx, tx, ret.ID, ret.Items); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create return: %w", err)
	}

	return nil
}

func (r *returnRepository) Get(id string) (domain.Return, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var ret domain.Return
	var status, method string

	err := r.db.QueryRowContext(ctx, `
		SELECT id, order_id, customer_id, status, refund_method,
		       refund_amount_minor, reason, version, created_at, updated_at
		FROM returns
		WHERE id = $1
	`, id).Scan(
		&ret.ID, &ret.OrderID, &ret.CustomerID, &status, &method,
		&ret.RefundAmountMinor, &ret.Reason, &ret.Version, &ret.CreatedAt, &ret.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Return{}, domain.ErrReturnNotFound
		}
		return domain.Return{}, fmt.Errorf("select return: %w", err)
	}
	ret.Status = domain.ReturnStatus(status)
	ret.RefundMethod = domain.RefundMethod(method)

	items, err := r.loadItems(ctx, ret.ID)
	if err != nil {
		return domain.Return{}, err
	}
	ret.Items = items

	return ret, nil
}

func (r *returnRepository) List(limit int) ([]domain.Return, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	query := `
		SELECT id, order_id, customer_id, status, refund_method,
		       refund_amount_minor, reason, version, created_at, updated_at
		FROM returns
		ORDER BY created_at DESC, id DESC
	`

	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.db.QueryContext(ctx, query+" LIMIT $1", limit)
	} else {
		rows, err = r.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	defer rows.Close()

	returns := make([]domain.Return, 0)
	for rows.Next() {
		var ret domain.Return
		var status, method string
		if err := rows.Scan(
			&ret.ID, &ret.OrderID, &ret.CustomerID, &status, &method,
			&ret.RefundAmountMinor, &ret.Reason, &ret.Version, &ret.CreatedAt, &ret.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan return row: %w", err)
		}
		ret.Status = domain.ReturnStatus(status)
		ret.RefundMethod = domain.RefundMethod(method)

		items, err := r.loadItems(ctx, ret.ID)
		if err != nil {
			return nil, err
		}
		ret.Items = items
		returns = append(returns, ret)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate return rows: %w", err)
	}

	return returns, nil
}

func (r *returnRepository) Save(ret domain.Return) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE returns
		SET order_id = $1,
		    customer_id = $2,
		    status = $3,
		    refund_method = $4,
		    refund_amount_minor = $5,
		    reason = $6,
		    version = version + 1,
		    updated_at = $7
		WHERE id = $8
		  AND version = $9
	`,
		ret.OrderID, ret.CustomerID, string(ret.Status), string(ret.RefundMethod),
		ret.RefundAmountMinor, ret.Reason, ret.UpdatedAt, ret.ID, ret.Version,
	)
	if err != nil {
		return fmt.Errorf("update return: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, err := rowExistsTx(ctx, tx, `SELECT id FROM returns WHERE id = $1`, ret.ID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrReturnNotFound
		}
		return domain.ErrVersionConflict
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM return_items WHERE return_id = $1`, ret.ID); err != nil {
		return fmt.Errorf("delete return items: %w", err)
	}
	if err = insertReturnItems(ctx, tx, ret.ID, ret.Items); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save return: %w", err)
	}

	return nil
}

func (r *returnRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM returns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete return: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrReturnNotFound
	}

	return nil
}

func (r *returnRepository) loadItems(ctx context.Context, returnID string) ([]domain.ReturnItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, qty, created_at
		FROM return_items
		WHERE return_id = $1
		ORDER BY created_at ASC, id ASC
	`, returnID)
	if err != nil {
		return nil, fmt.Errorf("load return items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.ReturnItem, 0)
	for rows.Next() {
		var item domain.ReturnItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Qty, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan return item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate return items: %w", err)
	}

	return items, nil
}

func insertReturnItems(ctx context.Context, tx *sql.Tx, returnID string, items []domain.ReturnItem) error {
	for _, item := range items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO return_items (id, return_id, product_id, qty, created_at)
			VALUES ($1,$2,$3,$4,$5)
		`,
			item.ID, returnID, item.ProductID, item.Qty, item.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert return item: %w", err)
		}
	}
	return nil
}

var _ domain.ReturnRepository = (*returnRepository)(nil)
