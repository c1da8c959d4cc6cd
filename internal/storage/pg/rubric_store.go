package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reprolabs/verdict/internal/domain"
	"github.com/reprolabs/verdict/internal/storage"
)

const uniqueViolation = "23505"

type RubricStore struct {
	db *pgxpool.Pool
}

func NewRubricStore(pool *ConnectionPool) *RubricStore {
	return &RubricStore{db: pool.conn}
}

func (s *RubricStore) Save(ctx context.Context, rubric domain.Rubric) (uuid.UUID, error) {
	if rubric.ID == uuid.Nil {
		rubric.ID = uuid.New()
	}
	now := time.Now().UTC()
	if rubric.CreatedAt.IsZero() {
		rubric.CreatedAt = now
	}
	if rubric.UpdatedAt.IsZero() {
		rubric.UpdatedAt = now
	}

	criteriaJSON, err := json.Marshal(rubric.Criteria)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal criteria: %w", err)
	}

	cmd := `
        INSERT INTO rubrics (id, name, description, criteria, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id;
    `
	var id uuid.UUID
	err = s.db.QueryRow(ctx, cmd,
		rubric.ID,
		rubric.Name,
		rubric.Description,
		criteriaJSON,
		rubric.CreatedAt,
		rubric.UpdatedAt,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return uuid.Nil, storage.ErrAlreadyExists
		}
		return uuid.Nil, fmt.Errorf("failed to insert rubric: %w", err)
	}

	return id, nil
}

func (s *RubricStore) Get(ctx context.Context, id uuid.UUID) (*domain.Rubric, error) {
	query := `
        SELECT id, name, description, criteria, created_at, updated_at
        FROM rubrics
        WHERE id = $1;
    `
	rubric, err := scanRubric(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get rubric: %w", err)
	}
	return rubric, nil
}

func (s *RubricStore) List(ctx context.Context, page, size int) ([]domain.Rubric, int64, error) {
	var total int64
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM rubrics;`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count rubrics: %w", err)
	}

	query := `
        SELECT id, name, description, criteria, created_at, updated_at
        FROM rubrics
        ORDER BY created_at, id
        LIMIT $1 OFFSET $2;
    `
	rows, err := s.db.Query(ctx, query, size, (page-1)*size)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list rubrics: %w", err)
	}
	defer rows.Close()

	var rubrics []domain.Rubric
	for rows.Next() {
		rubric, err := scanRubric(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan rubric: %w", err)
		}
		rubrics = append(rubrics, *rubric)
	}
	return rubrics, total, rows.Err()
}

func (s *RubricStore) Update(ctx context.Context, rubric domain.Rubric) error {
	criteriaJSON, err := json.Marshal(rubric.Criteria)
	if err != nil {
		return fmt.Errorf("failed to marshal criteria: %w", err)
	}

	cmd := `
        UPDATE rubrics
        SET name = $2, description = $3, criteria = $4, updated_at = $5
        WHERE id = $1;
    `
	tag, err := s.db.Exec(ctx, cmd, rubric.ID, rubric.Name, rubric.Description, criteriaJSON, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update rubric: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *RubricStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM rubrics WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rubric: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanRubric(row pgx.Row) (*domain.Rubric, error) {
	var rubric domain.Rubric
	var criteriaJSON []byte

	if err := row.Scan(
		&rubric.ID,
		&rubric.Name,
		&rubric.Description,
		&criteriaJSON,
		&rubric.CreatedAt,
		&rubric.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(criteriaJSON, &rubric.Criteria); err != nil {
		return nil, fmt.Errorf("failed to unmarshal criteria: %w", err)
	}
	return &rubric, nil
}
