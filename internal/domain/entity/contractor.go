package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Contractor is the bookable party. Fees is snapshotted into every new
// appointment.
type Contractor struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string          `gorm:"type:varchar(255);not null" json:"name"`
	Speciality string          `gorm:"type:varchar(100);not null;index" json:"speciality"`
	Fees       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"fees"`
	Available  bool            `gorm:"not null;default:true" json:"available"`
	IsApproved bool            `gorm:"not null;default:false" json:"is_approved"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Contractor) TableName() string {
	return "contractors"
}

// IsBookable checks if new bookings are accepted
func (c *Contractor) IsBookable() bool {
	return c.Available && c.IsApproved
}

// ContractorFilter narrows contractor listings. The zero value lists every
// contractor.
type ContractorFilter struct {
	ApprovedOnly bool
	Speciality   string
}

// Matches reports whether c passes the filter.
func (f *ContractorFilter) Matches(c *Contractor) bool {
	if f == nil {
		return true
	}
	if f.ApprovedOnly && !c.IsApproved {
		return false
	}
	if f.Speciality != "" && !strings.EqualFold(f.Speciality, c.Speciality) {
		return false
	}
	return true
}

// ContractorRating is the running aggregate of star ratings of a contractor.
type ContractorRating struct {
	ContractorID uuid.UUID `gorm:"type:uuid;primaryKey" json:"contractor_id"`
	RatingSum    int64     `gorm:"not null;default:0" json:"rating_sum"`
	RatingCount  int64     `gorm:"not null;default:0" json:"rating_count"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ContractorRating) TableName() string {
	return "contractor_ratings"
}

func (r ContractorRating) Average() float64 {
	if r.RatingCount == 0 {
		return 0
	}
	return float64(r.RatingSum) / float64(r.RatingCount)
}

// ContractorStats is recomputed from appointments on every read.
type ContractorStats struct {
	Earnings     decimal.Decimal
	Appointments int
	Patients     int
}

// ComputeContractorStats derives earnings and patient count. Earnings only
// count completed appointments; patients count every distinct user.
func ComputeContractorStats(appointments []Appointment) ContractorStats {
	stats := ContractorStats{Earnings: decimal.Zero, Appointments: len(appointments)}
	users := make(map[uuid.UUID]struct{}, len(appointments))
	for _, a := range appointments {
		if a.IsCompleted() {
			stats.Earnings = stats.Earnings.Add(a.Amount)
		}
		users[a.UserID] = struct{}{}
	}
	stats.Patients = len(users)
	return stats
}
