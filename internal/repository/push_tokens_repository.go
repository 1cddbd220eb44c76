package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/habitgarden/internal/error_values"
	"github.com/limbo/habitgarden/pkg/entity"
)

type PushTokensRepository struct {
	conn PgConnection
}

func NewPushTokensRepo(cfg DBConfig) *PushTokensRepository {
	return &PushTokensRepository{
		conn: newPool(cfg, "pushTokensRepo"),
	}
}

func NewPushTokensRepoWithConn(conn PgConnection) *PushTokensRepository {
	mustPing(conn, "pushTokensRepo")
	return &PushTokensRepository{
		conn: conn,
	}
}

func (pr *PushTokensRepository) Save(ctx context.Context, uid uuid.UUID, token string) error {
	_, err := pr.conn.Exec(ctx, `INSERT INTO push_tokens (token, user_id) VALUES ($1, $2)
		ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id;`, token, uid)
	if err != nil {
		if pgErrCode(err) == fkViolation {
			return errorvalues.ErrUserNotFound
		}
		return errors.New("saving push token error: " + err.Error())
	}
	return nil
}

func (pr *PushTokensRepository) Delete(ctx context.Context, uid uuid.UUID, token string) error {
	ct, err := pr.conn.Exec(ctx, `DELETE FROM push_tokens WHERE token = $1 AND user_id = $2;`, token, uid)
	if err != nil {
		return errors.New("deleting push token error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrTokenNotFound
	}
	return nil
}

func (pr *PushTokensRepository) ListByUserID(ctx context.Context, uid uuid.UUID) ([]string, error) {
	rows, err := pr.conn.Query(ctx, `SELECT token FROM push_tokens WHERE user_id = $1 ORDER BY created_at;`, uid)
	if err != nil {
		return nil, errors.New("listing push tokens error: " + err.Error())
	}
	defer rows.Close()
	tokens := make([]string, 0)
	for rows.Next() {
		var token string
		if err = rows.Scan(&token); err != nil {
			return nil, errors.New("push token row parsing error: " + err.Error())
		}
		tokens = append(tokens, token)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected push token rows error: " + err.Error())
	}
	return tokens, nil
}

func (pr *PushTokensRepository) ListRecipients(ctx context.Context) ([]entity.Recipient, error) {
	rows, err := pr.conn.Query(ctx, `SELECT user_id, array_agg(token ORDER BY created_at) FROM push_tokens
		GROUP BY user_id ORDER BY user_id;`)
	if err != nil {
		return nil, errors.New("listing reminder recipients error: " + err.Error())
	}
	defer rows.Close()
	recipients := make([]entity.Recipient, 0)
	for rows.Next() {
		var r entity.Recipient
		if err = rows.Scan(&r.UserID, &r.Tokens); err != nil {
			return nil, errors.New("recipient row parsing error: " + err.Error())
		}
		recipients = append(recipients, r)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected recipient rows error: " + err.Error())
	}
	return recipients, nil
}
