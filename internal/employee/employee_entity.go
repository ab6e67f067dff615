package employee

import (
	"time"
)

// Employee is the personnel record. The cedula (national ID) is the
// natural key the business uses everywhere, so it is the primary key.
// Rows are only ever written by the HR request applicator.
type Employee struct {
	Cedula       string `gorm:"type:varchar(30);primaryKey"`
	Nombre       string `gorm:"not null"`
	Posicion     string
	Departamento string
	FechaInicio  string  `gorm:"type:varchar(10)"` // YYYY-MM-DD
	Salario      float64 `gorm:"type:numeric(12,2)"`
	Status       string  `gorm:"type:varchar(20);not null;default:'Activo'"`
	Vacaciones   float64 `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Employee) TableName() string {
	return "employees"
}
