package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"RecipeImageScanner/internal/ports"
)

// Open connects to Postgres and verifies the connection.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// PostgresStore persists recipe image assignments in the recipes table.
type PostgresStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.RecipeStore = (*PostgresStore)(nil)

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// MissingImageTitles lists titles without an image, ordered by recipe id
// ascending; limit caps the result when positive.
func (s *PostgresStore) MissingImageTitles(ctx context.Context, limit int) ([]string, error) {
	q := s.builder.
		Select("title").
		From("recipes").
		Where(sq.Or{sq.Eq{"image_url": nil}, sq.Eq{"image_url": ""}}).
		OrderBy("recipe_id ASC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query missing titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return titles, nil
}

// AssignedImageURLs loads every non-empty image URL currently assigned, used
// to seed the dedup set at startup.
func (s *PostgresStore) AssignedImageURLs(ctx context.Context) ([]string, error) {
	query, args, err := s.builder.
		Select("image_url").
		From("recipes").
		Where(sq.And{sq.NotEq{"image_url": nil}, sq.NotEq{"image_url": ""}}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assigned urls: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var imageURL string
		if err := rows.Scan(&imageURL); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		urls = append(urls, imageURL)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return urls, nil
}

// SetImageURL updates the image for an exact title and reports how many rows
// changed. Zero means the title is not stored; more than one means duplicate
// titles, which the store resolves by updating them all.
func (s *PostgresStore) SetImageURL(ctx context.Context, title, imageURL string) (int64, error) {
	query, args, err := s.builder.
		Update("recipes").
		Set("image_url", imageURL).
		Where(sq.Eq{"title": title}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update image url: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	return affected, nil
}
