package repositories

import (
	"context"
	"errors"

	"fieldtrack/internal/common"
	"fieldtrack/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type VisitRepository interface {
	Create(ctx context.Context, visit *models.Visit) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Visit, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]*models.Visit, error)
}

type visitRepo struct {
	db DBTX
}

func NewVisitRepo(db DBTX) VisitRepository {
	return &visitRepo{db: db}
}

func (r *visitRepo) Create(ctx context.Context, visit *models.Visit) error {
	query := `
		INSERT INTO visits (id, salesman_id, store_id, timestamp, latitude, longitude, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query, visit.ID, visit.SalesmanID, visit.StoreID, visit.Timestamp, visit.Latitude, visit.Longitude, visit.Notes)
	return err
}

func (r *visitRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Visit, error) {
	visit := &models.Visit{}
	query := `
		SELECT id, salesman_id, store_id, timestamp, latitude, longitude, notes
		FROM visits
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&visit.ID, &visit.SalesmanID, &visit.StoreID, &visit.Timestamp, &visit.Latitude, &visit.Longitude, &visit.Notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewNotFoundError("visit", id.String())
	}
	if err != nil {
		return nil, err
	}
	return visit, nil
}

func (r *visitRepo) ListByStore(ctx context.Context, storeID uuid.UUID, limit, offset int) ([]*models.Visit, error) {
	query := `
		SELECT id, salesman_id, store_id, timestamp, latitude, longitude, notes
		FROM visits
		WHERE store_id = $1
		ORDER BY timestamp DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, storeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visits []*models.Visit
	for rows.Next() {
		visit := &models.Visit{}
		if err := rows.Scan(&visit.ID, &visit.SalesmanID, &visit.StoreID, &visit.Timestamp, &visit.Latitude, &visit.Longitude, &visit.Notes); err != nil {
			return nil, err
		}
		visits = append(visits, visit)
	}
	return visits, rows.Err()
}
