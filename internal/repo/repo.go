package repo

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	GetByLogin(ctx context.Context, login string) (int, string, error)
	SaveCalculation(ctx context.Context, rec CalculationRecord) (int, error)
	RecentCalculations(ctx context.Context, userID, limit int) ([]CalculationRecord, error)
}

// CalculationRecord is one persisted Fp evaluation.
type CalculationRecord struct {
	ID           int       `json:"id"`
	UserID       int       `json:"-"`
	Address      string    `json:"address,omitempty"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	RiskCategory string    `json:"risk_category"`
	BuildingType string    `json:"building_type"`
	WallHeight   string    `json:"wall_height"`
	SDS          float64   `json:"sds"`
	Fp           float64   `json:"fp"`
	CreatedAt    time.Time `json:"created_at"`
}

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresDB(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string

	query := "SELECT id, password FROM users WHERE login=$1"

	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, "", nil
		}
		return 0, "", err
	}
	return id, hash, nil
}

func (r *PostgresRepository) SaveCalculation(ctx context.Context, rec CalculationRecord) (int, error) {
	var id int
	query := `INSERT INTO fp_history
		(user_id, address, latitude, longitude, risk_category, building_type, wall_height, sds, fp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		rec.UserID, rec.Address, rec.Latitude, rec.Longitude,
		rec.RiskCategory, rec.BuildingType, rec.WallHeight, rec.SDS, rec.Fp).Scan(&id)
	return id, err
}

func (r *PostgresRepository) RecentCalculations(ctx context.Context, userID, limit int) ([]CalculationRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := `SELECT id, address, latitude, longitude, risk_category, building_type, wall_height, sds, fp, created_at
		FROM fp_history WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CalculationRecord
	for rows.Next() {
		rec := CalculationRecord{UserID: userID}
		if err := rows.Scan(&rec.ID, &rec.Address, &rec.Latitude, &rec.Longitude,
			&rec.RiskCategory, &rec.BuildingType, &rec.WallHeight, &rec.SDS, &rec.Fp, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
