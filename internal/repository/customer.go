package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"customer-relay/internal/model"
)

type CustomerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{
		db: db,
	}
}

func (r *CustomerRepository) Pool() *pgxpool.Pool {
	return r.db
}

// SelectAll reads the whole table on every call. No filter, no ordering.
func (r *CustomerRepository) SelectAll(ctx context.Context, ext RepoExtension) ([]model.Customer, error) {
	if ext == nil {
		ext = r.db
	}

	var customers []model.Customer

	const query = `
		SELECT id, name FROM customer;
	`

	rows, err := ext.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var customer model.Customer
		if err := rows.Scan(
			&customer.ID,
			&customer.Name,
		); err != nil {
			return nil, err
		}

		customers = append(customers, customer)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return customers, nil
}

func (r *CustomerRepository) InsertCustomer(ctx context.Context, ext RepoExtension, customer model.Customer) error {
	if ext == nil {
		ext = r.db
	}

	const query = `
		INSERT INTO customer (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING;
	`

	_, err := ext.Exec(ctx, query, customer.ID, customer.Name)
	if err != nil {
		return err
	}

	return nil
}

func (r *CustomerRepository) Count(ctx context.Context, ext RepoExtension) (int, error) {
	if ext == nil {
		ext = r.db
	}

	const query = `
		SELECT count(*) FROM customer;
	`

	var count int
	if err := ext.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
