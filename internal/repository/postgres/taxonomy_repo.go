package pgrepo

import (
	"context"

	"variant-catalog/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type taxonomyRepository struct {
	db *pgxpool.Pool
}

func NewTaxonomyRepository(db *pgxpool.Pool) domain.TaxonomyRepository {
	return &taxonomyRepository{db: db}
}

// namedRow is the (id, name, created_at) shape shared by units and categories.
type namedRow struct {
	id        uuid.UUID
	name      string
	createdAt pgtype.Timestamptz
}

func (r *taxonomyRepository) listNamed(ctx context.Context, op, query string) ([]namedRow, error) {
	rows, err := conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, domain.NewStorageError(op, err)
	}
	defer rows.Close()

	var out []namedRow
	for rows.Next() {
		var (
			id  pgtype.UUID
			row namedRow
		)
		if err := rows.Scan(&id, &row.name, &row.createdAt); err != nil {
			return nil, domain.NewStorageError(op, err)
		}
		row.id = fromPgUUID(id)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError(op, err)
	}
	return out, nil
}

func (r *taxonomyRepository) ListUnits(ctx context.Context) ([]domain.Unit, error) {
	rows, err := r.listNamed(ctx, "list units", `SELECT id, name, created_at FROM units ORDER BY name`)
	if err != nil {
		return nil, err
	}
	units := make([]domain.Unit, 0, len(rows))
	for _, row := range rows {
		units = append(units, domain.Unit{ID: row.id, Name: row.name, CreatedAt: pgtimestamptzToTime(row.createdAt)})
	}
	return units, nil
}

func (r *taxonomyRepository) CreateUnit(ctx context.Context, unit *domain.Unit) error {
	var (
		id        pgtype.UUID
		createdAt pgtype.Timestamptz
	)
	err := conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO units (name) VALUES ($1) RETURNING id, created_at`, unit.Name,
	).Scan(&id, &createdAt)
	if err != nil {
		return classify("create unit", err)
	}
	unit.ID = fromPgUUID(id)
	unit.CreatedAt = pgtimestamptzToTime(createdAt)
	return nil
}

// DeleteUnit fails with ErrInvalidReference while products still use the unit.
func (r *taxonomyRepository) DeleteUnit(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM units WHERE id = $1`, toPgUUID(id))
	if err != nil {
		return classify("delete unit", err)
	}
	return mustAffect("delete unit", tag.RowsAffected(), domain.ErrUnitNotFound)
}

func (r *taxonomyRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.listNamed(ctx, "list categories", `SELECT id, name, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	categories := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, domain.Category{ID: row.id, Name: row.name, CreatedAt: pgtimestamptzToTime(row.createdAt)})
	}
	return categories, nil
}

func (r *taxonomyRepository) CreateCategory(ctx context.Context, category *domain.Category) error {
	var (
		id        pgtype.UUID
		createdAt pgtype.Timestamptz
	)
	err := conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id, created_at`, category.Name,
	).Scan(&id, &createdAt)
	if err != nil {
		return classify("create category", err)
	}
	category.ID = fromPgUUID(id)
	category.CreatedAt = pgtimestamptzToTime(createdAt)
	return nil
}

func (r *taxonomyRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `DELETE FROM categories WHERE id = $1`, toPgUUID(id))
	if err != nil {
		return classify("delete category", err)
	}
	return mustAffect("delete category", tag.RowsAffected(), domain.ErrCategoryNotFound)
}
