package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/dekarrin/rowjam"
	"github.com/google/uuid"
)

// Create marshals the entity to a row and inserts it under a freshly
// generated ID, which is returned. Fields the mapper omitted (zero-valued
// encodings) are simply not written and read back as absent.
//
// TODO: prepare the insert statement once per EntityStore instead of per
// call.
func (repo *EntityStore) Create(ctx context.Context, ent rowjam.Entity) (string, error) {
	if ent == nil {
		return "", fmt.Errorf("%w: entity cannot be nil", rowjam.ErrBadArgument)
	}

	newUUID, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("could not generate ID: %w", err)
	}
	id := newUUID.String()

	row := repo.Mapper.ToRow(ent, repo.Spec)

	cols := []string{"id"}
	args := []interface{}{id}
	for _, col := range repo.specColumns() {
		if v, ok := row[col]; ok {
			cols = append(cols, col)
			args = append(args, v)
		}
	}
	if v, ok := row[rowjam.HintColumn]; ok {
		cols = append(cols, rowjam.HintColumn)
		args = append(args, v)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt, err := repo.DB.Prepare(fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		repo.Table, strings.Join(cols, ", "), placeholders,
	))
	if err != nil {
		return "", WrapDBError(err)
	}

	_, err = stmt.ExecContext(ctx, args...)
	if err != nil {
		return "", WrapDBError(err)
	}

	return id, nil
}

// Get loads the row with the given ID and unmarshals it back into an entity
// constructed from proto. NULL columns are treated as absent fields.
func (repo *EntityStore) Get(ctx context.Context, id string, proto rowjam.Entity) (rowjam.Entity, error) {
	cols := append(repo.specColumns(), rowjam.HintColumn)

	sqlRow := repo.DB.QueryRowContext(ctx, fmt.Sprintf(
		"SELECT %s FROM %s WHERE id = ?",
		strings.Join(cols, ", "), repo.Table,
	), id)

	dests := make([]interface{}, len(cols))
	for i := range dests {
		dests[i] = new(interface{})
	}

	if err := sqlRow.Scan(dests...); err != nil {
		return nil, WrapDBError(err)
	}

	return repo.Mapper.FromRow(proto, rowFromScan(cols, dests), repo.Spec), nil
}

// GetAll loads every stored entity, ordered by ID.
func (repo *EntityStore) GetAll(ctx context.Context, proto rowjam.Entity) ([]rowjam.Entity, error) {
	cols := append(repo.specColumns(), rowjam.HintColumn)

	rows, err := repo.DB.QueryContext(ctx, fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY id",
		strings.Join(cols, ", "), repo.Table,
	))
	if err != nil {
		return nil, WrapDBError(err)
	}
	defer rows.Close()

	var all []rowjam.Entity

	for rows.Next() {
		dests := make([]interface{}, len(cols))
		for i := range dests {
			dests[i] = new(interface{})
		}

		if err := rows.Scan(dests...); err != nil {
			return nil, WrapDBError(err)
		}

		all = append(all, repo.Mapper.FromRow(proto, rowFromScan(cols, dests), repo.Spec))
	}

	if err := rows.Err(); err != nil {
		return nil, WrapDBError(err)
	}

	return all, nil
}

// Update re-marshals the entity and writes it over the row with the given ID.
// Every spec column is written; fields the mapper omitted become NULL, so an
// update fully replaces the stored shape of the entity.
func (repo *EntityStore) Update(ctx context.Context, id string, ent rowjam.Entity) error {
	if ent == nil {
		return fmt.Errorf("%w: entity cannot be nil", rowjam.ErrBadArgument)
	}

	row := repo.Mapper.ToRow(ent, repo.Spec)

	cols := append(repo.specColumns(), rowjam.HintColumn)
	sets := make([]string, len(cols))
	args := make([]interface{}, 0, len(cols)+1)
	for i, col := range cols {
		sets[i] = col + " = ?"
		args = append(args, row[col])
	}
	args = append(args, id)

	res, err := repo.DB.ExecContext(ctx, fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = ?",
		repo.Table, strings.Join(sets, ", "),
	), args...)
	if err != nil {
		return WrapDBError(err)
	}

	updated, err := res.RowsAffected()
	if err != nil {
		return WrapDBError(err)
	}
	if updated < 1 {
		return rowjam.ErrNotFound
	}

	return nil
}

// Delete removes the row with the given ID, returning the entity that was
// stored there.
func (repo *EntityStore) Delete(ctx context.Context, id string, proto rowjam.Entity) (rowjam.Entity, error) {
	ent, err := repo.Get(ctx, id, proto)
	if err != nil {
		return nil, err
	}

	res, err := repo.DB.ExecContext(ctx, fmt.Sprintf(
		"DELETE FROM %s WHERE id = ?", repo.Table,
	), id)
	if err != nil {
		return nil, WrapDBError(err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return nil, WrapDBError(err)
	}
	if deleted < 1 {
		return nil, rowjam.ErrNotFound
	}

	return ent, nil
}

// rowFromScan assembles a rowjam.Row from scanned column values. NULLs are
// dropped entirely; an omitted field and a NULL column are the same thing on
// the read path. []byte values are normalized to string since the mapper's
// codecs only ever write strings to text columns.
func rowFromScan(cols []string, dests []interface{}) rowjam.Row {
	row := rowjam.Row{}
	for i, col := range cols {
		v := *(dests[i].(*interface{}))
		if v == nil {
			continue
		}
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		row[col] = v
	}
	return row
}
