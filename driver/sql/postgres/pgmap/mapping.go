package pgmap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dogmatiq/dirmap/internal/x/xerrors"
	"github.com/dogmatiq/dirmap/mapping"
)

// rowMapping is an implementation of [mapping.Mapping] that stores each entry
// as a row in the dirmap.entry table.
type rowMapping struct {
	db   *sql.DB
	name string
}

func (m *rowMapping) Name() string {
	return m.name
}

func (m *rowMapping) Len(ctx context.Context) (n int, err error) {
	defer xerrors.Wrap(&err, "unable to count the entries in the %q mapping", m.name)

	row := m.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*)
		FROM dirmap.entry
		WHERE mapping = $1`,
		m.name,
	)

	err = row.Scan(&n)
	return n, err
}

func (m *rowMapping) Get(ctx context.Context, k string) (v string, err error) {
	defer xerrors.Wrap(&err, "unable to get %q from the %q mapping", k, m.name)

	if err := mapping.ValidateKey(m.name, k); err != nil {
		return "", err
	}

	v, ok, err := m.get(ctx, k)
	if err != nil {
		return "", err
	}

	if !ok {
		return "", mapping.KeyNotFoundError{
			Mapping: m.name,
			Key:     k,
		}
	}

	return v, nil
}

func (m *rowMapping) get(ctx context.Context, k string) (v string, ok bool, err error) {
	row := m.db.QueryRowContext(
		ctx,
		`SELECT value
		FROM dirmap.entry
		WHERE mapping = $1
		AND key = $2`,
		m.name,
		k,
	)

	if err := row.Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}

	return v, true, nil
}

func (m *rowMapping) Has(ctx context.Context, k string) (ok bool, err error) {
	defer xerrors.Wrap(&err, "unable to check for %q in the %q mapping", k, m.name)

	if err := mapping.ValidateKey(m.name, k); err != nil {
		return false, err
	}

	row := m.db.QueryRowContext(
		ctx,
		`SELECT EXISTS (
			SELECT 1
			FROM dirmap.entry
			WHERE mapping = $1
			AND key = $2
		)`,
		m.name,
		k,
	)

	err = row.Scan(&ok)
	return ok, err
}

func (m *rowMapping) Set(ctx context.Context, k, v string) (err error) {
	defer xerrors.Wrap(&err, "unable to set %q in the %q mapping", k, m.name)

	if err := mapping.ValidateKey(m.name, k); err != nil {
		return err
	}

	_, err = m.db.ExecContext(
		ctx,
		`INSERT INTO dirmap.entry (
			mapping,
			key,
			value
		) VALUES (
			$1, $2, $3
		) ON CONFLICT (mapping, key) DO UPDATE SET
			value = excluded.value`,
		m.name,
		k,
		v,
	)

	return err
}

func (m *rowMapping) Delete(ctx context.Context, k string) (v string, err error) {
	defer xerrors.Wrap(&err, "unable to delete %q from the %q mapping", k, m.name)

	if err := mapping.ValidateKey(m.name, k); err != nil {
		return "", err
	}

	row := m.db.QueryRowContext(
		ctx,
		`DELETE FROM dirmap.entry
		WHERE mapping = $1
		AND key = $2
		RETURNING value`,
		m.name,
		k,
	)

	if err := row.Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", mapping.KeyNotFoundError{
				Mapping: m.name,
				Key:     k,
			}
		}
		return "", err
	}

	return v, nil
}

func (m *rowMapping) RangeKeys(ctx context.Context, fn mapping.KeyFunc) error {
	keys, err := m.Keys(ctx)
	if err != nil {
		return err
	}

	for _, k := range keys {
		ok, err := fn(ctx, k)
		if !ok || err != nil {
			return err
		}
	}

	return nil
}

// Range reads every pair before the first call to fn, so that fn may use the
// mapping without holding a connection open for the duration of the range.
func (m *rowMapping) Range(ctx context.Context, fn mapping.RangeFunc) error {
	type pair struct{ Key, Value string }
	var pairs []pair

	if err := m.query(
		ctx,
		func(rows *sql.Rows) error {
			var p pair
			if err := rows.Scan(&p.Key, &p.Value); err != nil {
				return err
			}
			pairs = append(pairs, p)
			return nil
		},
		`SELECT key, value
		FROM dirmap.entry
		WHERE mapping = $1
		ORDER BY key`,
		m.name,
	); err != nil {
		return fmt.Errorf("unable to range over the entries in the %q mapping: %w", m.name, err)
	}

	for _, p := range pairs {
		ok, err := fn(ctx, p.Key, p.Value)
		if !ok || err != nil {
			return err
		}
	}

	return nil
}

func (m *rowMapping) Keys(ctx context.Context) (keys []string, err error) {
	defer xerrors.Wrap(&err, "unable to list the keys in the %q mapping", m.name)

	err = m.query(
		ctx,
		func(rows *sql.Rows) error {
			var k string
			if err := rows.Scan(&k); err != nil {
				return err
			}
			keys = append(keys, k)
			return nil
		},
		`SELECT key
		FROM dirmap.entry
		WHERE mapping = $1
		ORDER BY key`,
		m.name,
	)

	return keys, err
}

func (m *rowMapping) Values(ctx context.Context) ([]string, error) {
	return mapping.CollectValues(ctx, m)
}

func (m *rowMapping) Clear(ctx context.Context) (err error) {
	defer xerrors.Wrap(&err, "unable to clear the %q mapping", m.name)

	_, err = m.db.ExecContext(
		ctx,
		`DELETE FROM dirmap.entry
		WHERE mapping = $1`,
		m.name,
	)

	return err
}

func (m *rowMapping) GetOrDefault(ctx context.Context, k, def string) (string, error) {
	return mapping.GetOrDefault(ctx, m, k, def)
}

func (m *rowMapping) PopOrDefault(ctx context.Context, k, def string) (string, error) {
	return mapping.PopOrDefault(ctx, m, k, def)
}

// SetIfAbsent inserts def without overwriting an existing row, so that
// concurrent callers agree on which value was stored.
func (m *rowMapping) SetIfAbsent(ctx context.Context, k, def string) (v string, err error) {
	defer xerrors.Wrap(&err, "unable to set %q in the %q mapping", k, m.name)

	if err := mapping.ValidateKey(m.name, k); err != nil {
		return "", err
	}

	for {
		res, err := m.db.ExecContext(
			ctx,
			`INSERT INTO dirmap.entry (
				mapping,
				key,
				value
			) VALUES (
				$1, $2, $3
			) ON CONFLICT (mapping, key) DO NOTHING`,
			m.name,
			k,
			def,
		)
		if err != nil {
			return "", err
		}

		n, err := res.RowsAffected()
		if err != nil {
			return "", err
		}

		if n == 1 {
			return def, nil
		}

		v, ok, err := m.get(ctx, k)
		if ok || err != nil {
			return v, err
		}

		// The row was deleted after the insert was skipped, try again.
	}
}

// query executes a query and calls fn for each row in the result.
func (m *rowMapping) query(
	ctx context.Context,
	fn func(*sql.Rows) error,
	query string,
	args ...any,
) error {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}

	return rows.Err()
}
