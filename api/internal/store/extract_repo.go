package store

import (
	"context"
	"database/sql"
	"errors"

	"nid-extract/api/internal/nid"
)

// ExtractRepo caches successful extractions in Postgres so repeated
// photos of the same card do not cost another model call.
//
// Schema:
//
//	create table if not exists extractions (
//	    id          bigserial primary key,
//	    created_at  timestamptz not null default now(),
//	    image_hash  text not null,
//	    engine      text not null,
//	    model       text not null,
//	    national_id text not null
//	);
//	create index if not exists extractions_hash_idx
//	    on extractions (image_hash, engine, model, created_at desc);
type ExtractRepo struct{ DB *sql.DB }

func NewExtractRepo(db *sql.DB) *ExtractRepo { return &ExtractRepo{DB: db} }

// FindByHash returns the most recent cached ID for (image_hash, engine,
// model), or nid.ErrCacheMiss.
func (r *ExtractRepo) FindByHash(ctx context.Context, imageHash, engine, model string) (string, error) {
	const q = `
select national_id
from extractions
where image_hash = $1 and engine = $2 and model = $3
order by created_at desc
limit 1`
	var id string
	err := r.DB.QueryRowContext(ctx, q, imageHash, engine, model).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nid.ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *ExtractRepo) Save(ctx context.Context, imageHash, engine, model, nationalID string) error {
	const q = `
insert into extractions (image_hash, engine, model, national_id)
values ($1, $2, $3, $4)`
	_, err := r.DB.ExecContext(ctx, q, imageHash, engine, model, nationalID)
	return err
}
