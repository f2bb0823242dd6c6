package store

import (
	"database/sql"
	"time"

	"github.com/agri-tools/fruit-atlas/pkg/models/domain"
)

// ScanRecord is the storage-level shape of one scan row. Nullable
// columns use database/sql types here and become pointers at the domain
// boundary.
type ScanRecord struct {
	ID                  string
	Category            string
	OverallConfidence   sql.NullFloat64
	ColorConfidence     sql.NullFloat64
	OilConfidence       sql.NullFloat64
	DetectionConfidence sql.NullFloat64
	OilYieldPercent     sql.NullFloat64
	LengthCM            sql.NullFloat64
	WidthCM             sql.NullFloat64
	KernelMassG         sql.NullFloat64
	WholeFruitWeightG   sql.NullFloat64
	HasSpots            bool
	CoinDetected        bool
	ScannedAt           time.Time
	UserName            sql.NullString
	UserEmail           sql.NullString
}

// ToDomain converts the row into the read-only pipeline shape.
func (r ScanRecord) ToDomain() domain.ScanRecord {
	return domain.ScanRecord{
		ID:                  r.ID,
		Category:            domain.Category(r.Category),
		OverallConfidence:   nullable(r.OverallConfidence),
		ColorConfidence:     nullable(r.ColorConfidence),
		OilYieldConfidence:  nullable(r.OilConfidence),
		DetectionConfidence: nullable(r.DetectionConfidence),
		OilYieldPercent:     nullable(r.OilYieldPercent),
		Dimensions: domain.Dimensions{
			LengthCM:          nullable(r.LengthCM),
			WidthCM:           nullable(r.WidthCM),
			KernelMassG:       nullable(r.KernelMassG),
			WholeFruitWeightG: nullable(r.WholeFruitWeightG),
		},
		HasSpots:     r.HasSpots,
		CoinDetected: r.CoinDetected,
		ScannedAt:    r.ScannedAt,
		UserName:     r.UserName.String,
		UserEmail:    r.UserEmail.String,
	}
}

// UserRecord is the storage-level shape of one roster row.
type UserRecord struct {
	Name     string
	Email    string
	Role     sql.NullString
	JoinedAt sql.NullTime
}

func (u UserRecord) ToDomain() domain.UserRecord {
	rec := domain.UserRecord{
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role.String,
	}
	if u.JoinedAt.Valid {
		t := u.JoinedAt.Time
		rec.JoinedAt = &t
	}
	return rec
}

func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
