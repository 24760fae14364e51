package cms

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// listRecords runs the two-query list protocol: a count built from the
// base scope plus the filter and search criteria, and a data query built
// from the same criteria plus ordering and pagination. The two queries
// are not atomic; a write landing between them is a tolerated race.
func listRecords[T any](ctx context.Context, db *bun.DB, params ListParams, scope ...repository.SelectCriteria) ([]T, int, error) {
	var zero T

	countQ := db.NewSelect().Model(zero)
	for _, c := range scope {
		countQ = countQ.Apply(c)
	}
	for _, c := range params.SelectCriteria() {
		countQ = countQ.Apply(c)
	}

	total, err := countQ.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	var records []T
	dataQ := db.NewSelect().Model(&records)
	for _, c := range scope {
		dataQ = dataQ.Apply(c)
	}
	for _, c := range params.SelectCriteria() {
		dataQ = dataQ.Apply(c)
	}
	dataQ = params.ApplyOrderAndPage(dataQ)

	if err := dataQ.Scan(ctx); err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// saveRecord writes the full record back by primary key, conditioned on
// the stored row not already being soft deleted. Zero rows affected means
// the record is gone, reported as not found.
func saveRecord[T any](ctx context.Context, db *bun.DB, record T) error {
	res, err := db.NewUpdate().
		Model(record).
		WherePK().
		Where("deleted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
