// Package database stores model snapshots in PostgreSQL, one row per line.
package database

import (
	"context"
	"errors"
	"fmt"

	ifcerrors "github.com/diwise/ifc-elements/pkg/ifc/errors"
	"github.com/diwise/ifc-elements/pkg/ifc/model"
	"github.com/diwise/ifc-elements/pkg/ifc/types"
	"github.com/diwise/ifc-elements/pkg/ifc/types/entities"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Database interface {
	LoadModel(ctx context.Context, modelID uuid.UUID) (*model.Model, error)
	// SaveModel stores every line of the model, replacing any earlier copy
	SaveModel(ctx context.Context, m *model.Model) error
	// SaveChanges only stores the lines that have been written since the model was loaded
	SaveChanges(ctx context.Context, m *model.Model) error
	Close()
}

type db struct {
	pool *pgxpool.Pool
}

func Connect(ctx context.Context, cfg Config) (Database, error) {
	pool, err := pgxpool.New(ctx, cfg.ConnStr())
	if err != nil {
		return nil, err
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, err
	}

	d := &db{pool: pool}

	err = d.initialize(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return d, nil
}

func (d *db) initialize(ctx context.Context) error {
	sql := `
		CREATE TABLE IF NOT EXISTS ifc_models (
			model_id    UUID PRIMARY KEY,
			schema      TEXT NOT NULL,
			modified_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS ifc_lines (
			model_id    UUID NOT NULL REFERENCES ifc_models(model_id) ON DELETE CASCADE,
			express_id  BIGINT NOT NULL,
			entity_type TEXT NOT NULL,
			line        JSONB NOT NULL,
			PRIMARY KEY (model_id, express_id)
		);
		CREATE INDEX IF NOT EXISTS ifc_lines_type_idx ON ifc_lines (model_id, entity_type);`

	_, err := d.pool.Exec(ctx, sql)
	return err
}

func (d *db) Close() {
	d.pool.Close()
}

func (d *db) LoadModel(ctx context.Context, modelID uuid.UUID) (*model.Model, error) {
	var schema string

	err := d.pool.QueryRow(ctx, `SELECT schema FROM ifc_models WHERE model_id=$1`, modelID).Scan(&schema)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ifcerrors.NewNotFoundError(fmt.Sprintf("no model with id %s", modelID))
		}
		return nil, err
	}

	rows, err := d.pool.Query(ctx, `SELECT line FROM ifc_lines WHERE model_id=$1 ORDER BY express_id`, modelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]types.Entity, 0)

	for rows.Next() {
		var raw []byte
		err := rows.Scan(&raw)
		if err != nil {
			return nil, err
		}

		e, err := entities.NewFromJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to load line of model %s: %w", modelID, err)
		}
		lines = append(lines, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	logging.GetFromContext(ctx).Debug("model loaded", "model_id", modelID.String(), "lines", len(lines))

	return model.New(lines, model.WithID(modelID), model.WithSchema(schema))
}

func (d *db) SaveModel(ctx context.Context, m *model.Model) error {
	return d.save(ctx, m, m.Lines(), true)
}

func (d *db) SaveChanges(ctx context.Context, m *model.Model) error {
	modified := m.Modified()
	if len(modified) == 0 {
		return nil
	}

	lines := make([]types.Entity, 0, len(modified))
	for _, id := range modified {
		if e, ok := m.GetLine(id); ok {
			lines = append(lines, e)
		}
	}

	return d.save(ctx, m, lines, false)
}

func (d *db) save(ctx context.Context, m *model.Model, lines []types.Entity, replace bool) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO ifc_models (model_id, schema) VALUES ($1, $2)
		ON CONFLICT (model_id) DO UPDATE SET schema=EXCLUDED.schema, modified_at=NOW()`,
		m.ID(), m.Schema(),
	)
	if err != nil {
		return ifcerrors.NewWriteFailedError(fmt.Sprintf("failed to store model %s: %s", m.ID(), err.Error()))
	}

	if replace {
		_, err = tx.Exec(ctx, `DELETE FROM ifc_lines WHERE model_id=$1`, m.ID())
		if err != nil {
			return err
		}
	}

	batch := &pgx.Batch{}

	for _, e := range lines {
		b, err := e.MarshalJSON()
		if err != nil {
			return err
		}

		batch.Queue(`
			INSERT INTO ifc_lines (model_id, express_id, entity_type, line) VALUES ($1, $2, $3, $4)
			ON CONFLICT (model_id, express_id) DO UPDATE SET entity_type=EXCLUDED.entity_type, line=EXCLUDED.line`,
			m.ID(), int64(e.ID()), string(e.Type()), string(b),
		)
	}

	err = tx.SendBatch(ctx, batch).Close()
	if err != nil {
		return ifcerrors.NewWriteFailedError(fmt.Sprintf("failed to store lines of model %s: %s", m.ID(), err.Error()))
	}

	err = tx.Commit(ctx)
	if err != nil {
		return err
	}

	logging.GetFromContext(ctx).Debug("model saved", "model_id", m.ID().String(), "lines", len(lines))

	return nil
}
