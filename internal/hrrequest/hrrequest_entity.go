package hrrequest

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RequestType is the closed set of change kinds the workflow accepts.
// The applicator switches over every member; anything else is rejected
// at submission.
type RequestType string

const (
	TypeAddEmployee      RequestType = "add_employee"
	TypeEditEmployee     RequestType = "edit_employee"
	TypeSalaryChange     RequestType = "salary_change"
	TypePositionChange   RequestType = "position_change"
	TypeDepartmentChange RequestType = "department_change"
	TypeStatusChange     RequestType = "status_change"
)

// IsValid reports whether t is one of the six known request kinds.
func (t RequestType) IsValid() bool {
	switch t {
	case TypeAddEmployee, TypeEditEmployee, TypeSalaryChange,
		TypePositionChange, TypeDepartmentChange, TypeStatusChange:
		return true
	}
	return false
}

// IsEdit reports whether t mutates an existing employee.
func (t RequestType) IsEdit() bool {
	return t.IsValid() && t != TypeAddEmployee
}

const (
	StatusPending      = "pending"
	StatusApprovedByGM = "approved_by_gm"
	StatusApprovedByHR = "approved_by_hr"
	StatusApproved     = "approved"
	StatusRejected     = "rejected"
)

// IsTerminal reports whether no further action is permitted.
func IsTerminal(status string) bool {
	return status == StatusApproved || status == StatusRejected
}

// JSONMap stores an arbitrary field->value document in a jsonb column.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}

	return json.Unmarshal(raw, m)
}

// HRRequest is a change request against the employee roster. It needs
// sign-off from both the general manager and HR before the proposed data
// is applied; status is always derived from which approvals are present.
type HRRequest struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Type            RequestType `gorm:"type:varchar(30);not null;index"`
	RequestedBy     string      `gorm:"not null"`
	RequestedByName string
	RequestedByRole string
	Title           string
	Description     string `gorm:"type:text"`

	CurrentData  JSONMap `gorm:"type:jsonb"`
	ProposedData JSONMap `gorm:"type:jsonb;not null"`

	TargetCedula       *string `gorm:"type:varchar(30);index"`
	TargetEmployeeName *string

	Status string `gorm:"type:varchar(20);not null;default:'pending';index"`

	GMApprovedBy *string
	GMApprovedAt *time.Time
	GMComments   *string

	HRApprovedBy *string
	HRApprovedAt *time.Time
	HRComments   *string

	RejectedBy      *string
	RejectedAt      *time.Time
	RejectionReason *string

	SubmittedAt time.Time `gorm:"not null;index"`
	ProcessedAt *time.Time
}

func (HRRequest) TableName() string {
	return "hr_requests"
}
