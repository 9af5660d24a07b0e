package store

import (
	"context"
	"database/sql"

	entsql "entgo.io/ent/dialect/sql"
)

// GetMeta returns the value stored under key and whether it was present.
func (s *Store) GetMeta(ctx context.Context, key string) (string, bool, error) {
	q := builder().Select("value").
		From(entsql.Table(metadataTable)).
		Where(entsql.EQ("key", key))

	var (
		value string
		found bool
	)
	err := s.query(ctx, "get metadata", q, func(rows *sql.Rows) error {
		found = true
		return rows.Scan(&value)
	})
	if err != nil {
		return "", false, err
	}
	return value, found, nil
}

// SetMeta stores value under key, replacing any previous value.
func (s *Store) SetMeta(ctx context.Context, key, value string) error {
	q := builder().Insert(metadataTable).
		Columns("key", "value").
		Values(key, value).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		)
	_, err := s.exec(ctx, "set metadata", q)
	return err
}
