package storage

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ekuznetsova/golinks/internal/app/models"
)

type DBStorage struct {
	pool *pgxpool.Pool
}

func NewDBStorage(dsn string) (*DBStorage, error) {
	if err := runMigrations(dsn); err != nil {
		return nil, fmt.Errorf("failed to run DB migrations: %w", err)
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create a connection pool: %w", err)
	}

	return &DBStorage{
		pool: pool,
	}, nil
}

func (db *DBStorage) FindByCode(ctx context.Context, code string) (models.Link, error) {
	row := db.pool.QueryRow(
		ctx,
		`SELECT "code", "destination", "user_email", "clicks", "created_at"
		 FROM "links" WHERE "code" = @code`,
		pgx.NamedArgs{"code": code},
	)
	var link models.Link
	err := row.Scan(&link.Code, &link.Destination, &link.OwnerEmail, &link.Clicks, &link.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Link{}, ErrNotFound
		}

		return models.Link{}, fmt.Errorf("failed to find link: %w", err)
	}

	return link, nil
}

func (db *DBStorage) FindByOwner(ctx context.Context, owner string) ([]models.Link, error) {
	rows, err := db.pool.Query(
		ctx,
		`SELECT "code", "destination", "user_email", "clicks", "created_at"
		 FROM "links" WHERE "user_email" = @owner ORDER BY "created_at" DESC`,
		pgx.NamedArgs{"owner": owner},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find owner links: %w", err)
	}

	return collectLinks(rows)
}

func (db *DBStorage) FindAll(ctx context.Context) ([]models.Link, error) {
	rows, err := db.pool.Query(
		ctx,
		`SELECT "code", "destination", "user_email", "clicks", "created_at"
		 FROM "links" ORDER BY "created_at" DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find links: %w", err)
	}

	return collectLinks(rows)
}

func (db *DBStorage) Save(ctx context.Context, link models.Link) error {
	_, err := db.pool.Exec(
		ctx,
		`INSERT INTO "links" ("code", "destination", "user_email", "clicks")
		 VALUES (@code, @destination, @ownerEmail, @clicks)`,
		pgx.NamedArgs{
			"code":        link.Code,
			"destination": link.Destination,
			"ownerEmail":  link.OwnerEmail,
			"clicks":      link.Clicks,
		},
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return NewErrCodeTaken(link.Code)
		}

		return fmt.Errorf("failed to save link: %w", err)
	}

	return nil
}

func (db *DBStorage) IncrementClicks(ctx context.Context, code string) error {
	_, err := db.pool.Exec(
		ctx,
		`UPDATE "links" SET "clicks" = "clicks" + 1 WHERE "code" = @code`,
		pgx.NamedArgs{"code": code},
	)
	if err != nil {
		return fmt.Errorf("failed to increment clicks: %w", err)
	}

	return nil
}

func (db *DBStorage) Delete(ctx context.Context, code, owner string) error {
	query := `DELETE FROM "links" WHERE "code" = @code`
	args := pgx.NamedArgs{"code": code}
	if owner != "" {
		query += ` AND "user_email" = @owner`
		args["owner"] = owner
	}

	// Affected rows are deliberately not inspected: deleting a missing or
	// foreign code is a silent no-op.
	if _, err := db.pool.Exec(ctx, query, args); err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	return nil
}

func (db *DBStorage) Close() {
	db.pool.Close()
}

func collectLinks(rows pgx.Rows) ([]models.Link, error) {
	defer rows.Close()

	result := make([]models.Link, 0)
	for rows.Next() {
		var link models.Link
		err := rows.Scan(&link.Code, &link.Destination, &link.OwnerEmail, &link.Clicks, &link.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		result = append(result, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read links: %w", err)
	}

	return result, nil
}

//go:embed db/migrations/*.sql
var migrationsDir embed.FS

func runMigrations(dsn string) error {
	d, err := iofs.New(migrationsDir, "db/migrations")
	if err != nil {
		return fmt.Errorf("failed to return an iofs driver: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", d, dsn)
	if err != nil {
		return fmt.Errorf("failed to get a new migrate instance: %w", err)
	}

	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	return nil
}
