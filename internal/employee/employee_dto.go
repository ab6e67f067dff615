package employee

type EmployeeResponse struct {
	Cedula       string  `json:"cedula"`
	Nombre       string  `json:"nombre"`
	Posicion     string  `json:"posicion"`
	Departamento string  `json:"departamento"`
	FechaInicio  string  `json:"fechaInicio"`
	Salario      float64 `json:"salario"`
	Status       string  `json:"status"`
	Vacaciones   float64 `json:"vacaciones"`
}

// EmployeeOption is the slim listing used by request forms to pick a
// target employee.
type EmployeeOption struct {
	Cedula string `json:"cedula"`
	Nombre string `json:"nombre"`
}
