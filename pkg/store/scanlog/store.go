package scanlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/agri-tools/fruit-atlas/pkg/models/domain"
	"github.com/agri-tools/fruit-atlas/pkg/models/store"
)

// Store supports ingestion (Add*) and the read operations the report
// pipeline needs. Records come back in chronological order; the builder
// and the renderers preserve that order end to end.
type Store interface {
	AddRecords(ctx context.Context, records []domain.ScanRecord) error
	GetRecords(ctx context.Context, category *domain.Category, since *time.Time) ([]domain.ScanRecord, error)
	GetUsers(ctx context.Context) ([]domain.UserRecord, error)
}

type scanStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &scanStore{db: db}, nil
}

func (s *scanStore) AddRecords(ctx context.Context, records []domain.ScanRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO scan_records (
			id, category, overall_confidence, color_confidence, oil_confidence,
			detection_confidence, oil_yield_percent, length_cm, width_cm,
			kernel_mass_g, whole_fruit_weight_g, has_spots, coin_detected,
			scanned_at, user_name, user_email
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err = stmt.ExecContext(ctx,
			r.ID,
			string(r.Category),
			r.OverallConfidence,
			r.ColorConfidence,
			r.OilYieldConfidence,
			r.DetectionConfidence,
			r.OilYieldPercent,
			r.Dimensions.LengthCM,
			r.Dimensions.WidthCM,
			r.Dimensions.KernelMassG,
			r.Dimensions.WholeFruitWeightG,
			r.HasSpots,
			r.CoinDetected,
			r.ScannedAt,
			r.UserName,
			r.UserEmail,
		)
		if err != nil {
			return fmt.Errorf("insert scan record: %w", err)
		}
	}
	return nil
}

func (s *scanStore) GetRecords(ctx context.Context, category *domain.Category, since *time.Time) ([]domain.ScanRecord, error) {
	query := `
		SELECT id, category, overall_confidence, color_confidence, oil_confidence,
			detection_confidence, oil_yield_percent, length_cm, width_cm,
			kernel_mass_g, whole_fruit_weight_g, has_spots, coin_detected,
			scanned_at, user_name, user_email
		FROM scan_records`

	var conditions []string
	var args []interface{}
	if category != nil {
		conditions = append(conditions, "category = ?")
		args = append(args, string(*category))
	}
	if since != nil {
		conditions = append(conditions, "scanned_at >= ?")
		args = append(args, *since)
	}
	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY scanned_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query scan records: %w", err)
	}
	defer rows.Close()

	var records []domain.ScanRecord
	for rows.Next() {
		var r store.ScanRecord
		err := rows.Scan(
			&r.ID, &r.Category, &r.OverallConfidence, &r.ColorConfidence,
			&r.OilConfidence, &r.DetectionConfidence, &r.OilYieldPercent,
			&r.LengthCM, &r.WidthCM, &r.KernelMassG, &r.WholeFruitWeightG,
			&r.HasSpots, &r.CoinDetected, &r.ScannedAt, &r.UserName, &r.UserEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("scan record row: %w", err)
		}
		records = append(records, r.ToDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scan records: %w", err)
	}
	return records, nil
}

func (s *scanStore) GetUsers(ctx context.Context) ([]domain.UserRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, email, role, joined_at FROM users ORDER BY joined_at ASC, email ASC")
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []domain.UserRecord
	for rows.Next() {
		var u store.UserRecord
		if err := rows.Scan(&u.Name, &u.Email, &u.Role, &u.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u.ToDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}
