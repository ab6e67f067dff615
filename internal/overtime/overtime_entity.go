package overtime

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// MaxHoursPerRequest caps a single overtime entry, matching the
// intake form validation.
const MaxHoursPerRequest = 12.0

// OvertimeRequest is one worked-overtime claim. Hours are derived from
// the start and end times once at submission and never recomputed.
type OvertimeRequest struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Cedula        string    `gorm:"type:varchar(30);not null;index"`
	EmployeeName  string    `gorm:"not null"`
	Date          string    `gorm:"type:varchar(10);not null"`
	StartTime     string    `gorm:"type:varchar(5);not null"`
	EndTime       string    `gorm:"type:varchar(5);not null"`
	OvertimeHours float64   `gorm:"type:numeric(4,2);not null"`
	Location      string
	Description   string  `gorm:"type:text"`
	PhotoEvidence *string `gorm:"type:text"`

	Status string `gorm:"type:varchar(20);not null;default:'pending';index"`

	ReviewedBy     *string
	ReviewedAt     *time.Time
	ReviewComments *string

	SubmittedAt time.Time `gorm:"not null;index"`
}

func (OvertimeRequest) TableName() string {
	return "overtime_requests"
}

// WeeklyAccrual is the running per-employee weekly bucket the payroll
// side reads. One row per cedula, created lazily with all buckets at
// zero; approvals add hours to exactly one day column.
type WeeklyAccrual struct {
	Cedula    string  `gorm:"type:varchar(30);primaryKey"`
	Nombre    string  `gorm:"not null"`
	Lunes     float64 `gorm:"type:numeric(5,2);not null;default:0"`
	Martes    float64 `gorm:"type:numeric(5,2);not null;default:0"`
	Miercoles float64 `gorm:"type:numeric(5,2);not null;default:0"`
	Jueves    float64 `gorm:"type:numeric(5,2);not null;default:0"`
	Viernes   float64 `gorm:"type:numeric(5,2);not null;default:0"`
	Sabado    float64 `gorm:"type:numeric(5,2);not null;default:0"`
	Domingo   float64 `gorm:"type:numeric(5,2);not null;default:0"`
}

func (WeeklyAccrual) TableName() string {
	return "horas_extras"
}
