package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-expediente-dashboard/internal/model"
)

// PostgresStore persists the session in the gateway_session table, for
// deployments where the gateway has no durable local disk. The table holds
// at most one row.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Save(ctx context.Context, sess model.Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO gateway_session (id, payload, updated_at)
		 VALUES (1, $1, $2)
		 ON CONFLICT (id) DO UPDATE SET payload = $1, updated_at = $2`,
		payload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (p *PostgresStore) Load(ctx context.Context) (*model.Session, error) {
	var payload []byte
	err := p.pool.QueryRow(ctx,
		`SELECT payload FROM gateway_session WHERE id = 1`).Scan(&payload)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess model.Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	return &sess, nil
}

func (p *PostgresStore) Clear(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM gateway_session WHERE id = 1`)
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
