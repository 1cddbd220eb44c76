package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitgarden/internal/error_values"
)

// CategoriesRepository stores user defined categories only. The default
// categories live in the service layer.
type CategoriesRepository struct {
	conn PgConnection
}

func NewCategoriesRepo(cfg DBConfig) *CategoriesRepository {
	return &CategoriesRepository{
		conn: newPool(cfg, "categoriesRepo"),
	}
}

func NewCategoriesRepoWithConn(conn PgConnection) *CategoriesRepository {
	mustPing(conn, "categoriesRepo")
	return &CategoriesRepository{
		conn: conn,
	}
}

func (cr *CategoriesRepository) Create(ctx context.Context, uid uuid.UUID, name string) error {
	_, err := cr.conn.Exec(ctx, `INSERT INTO custom_categories (user_id, name) VALUES ($1, $2);`, uid, name)
	if err != nil {
		switch pgErrCode(err) {
		case uniqueViolation:
			return errorvalues.ErrCategoryExists
		case fkViolation:
			return errorvalues.ErrUserNotFound
		}
		return errors.New("creating category error: " + err.Error())
	}
	return nil
}

func (cr *CategoriesRepository) ListByUserID(ctx context.Context, uid uuid.UUID) ([]string, error) {
	rows, err := cr.conn.Query(ctx, `SELECT name FROM custom_categories WHERE user_id = $1 ORDER BY created_at, id;`, uid)
	if err != nil {
		return nil, errors.New("listing categories error: " + err.Error())
	}
	defer rows.Close()
	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, errors.New("category row parsing error: " + err.Error())
		}
		names = append(names, name)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected category rows error: " + err.Error())
	}
	return names, nil
}

func (cr *CategoriesRepository) Delete(ctx context.Context, uid uuid.UUID, name string) error {
	ct, err := cr.conn.Exec(ctx, `DELETE FROM custom_categories WHERE user_id = $1 AND name = $2;`, uid, name)
	if err != nil {
		return errors.New("deleting category error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrCategoryNotFound
	}
	return nil
}
