package overtime

import "time"

type SubmitOvertimeRequest struct {
	Date          string  `json:"date" binding:"required"`
	StartTime     string  `json:"start_time" binding:"required"`
	EndTime       string  `json:"end_time" binding:"required"`
	Location      string  `json:"location"`
	Description   string  `json:"description"`
	PhotoEvidence *string `json:"photo_evidence"`
}

type ReviewRequest struct {
	Comments string `json:"comments"`
}

type OvertimeResponse struct {
	ID            string  `json:"id"`
	Cedula        string  `json:"cedula"`
	EmployeeName  string  `json:"employee_name"`
	Date          string  `json:"date"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	OvertimeHours float64 `json:"overtime_hours"`
	Location      string  `json:"location"`
	Description   string  `json:"description"`
	PhotoEvidence *string `json:"photo_evidence,omitempty"`

	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`

	ReviewedBy     *string    `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	ReviewComments *string    `json:"review_comments,omitempty"`

	SubmittedAt time.Time `json:"submitted_at"`
}

type AccrualResponse struct {
	Cedula    string  `json:"cedula"`
	Nombre    string  `json:"nombre"`
	Lunes     float64 `json:"lunes"`
	Martes    float64 `json:"martes"`
	Miercoles float64 `json:"miercoles"`
	Jueves    float64 `json:"jueves"`
	Viernes   float64 `json:"viernes"`
	Sabado    float64 `json:"sabado"`
	Domingo   float64 `json:"domingo"`
	Total     float64 `json:"total"`
}

var statusLabels = map[string]string{
	StatusPending:  "Pendiente",
	StatusApproved: "Aprobada",
	StatusRejected: "Rechazada",
}

func mapToResponse(req OvertimeRequest) OvertimeResponse {
	return OvertimeResponse{
		ID:             req.ID.String(),
		Cedula:         req.Cedula,
		EmployeeName:   req.EmployeeName,
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		OvertimeHours:  req.OvertimeHours,
		Location:       req.Location,
		Description:    req.Description,
		PhotoEvidence:  req.PhotoEvidence,
		Status:         req.Status,
		StatusLabel:    statusLabels[req.Status],
		ReviewedBy:     req.ReviewedBy,
		ReviewedAt:     req.ReviewedAt,
		ReviewComments: req.ReviewComments,
		SubmittedAt:    req.SubmittedAt,
	}
}

func mapToListResponse(reqs []OvertimeRequest) []OvertimeResponse {
	out := make([]OvertimeResponse, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, mapToResponse(req))
	}
	return out
}

func mapToAccrualResponse(accrual WeeklyAccrual) AccrualResponse {
	return AccrualResponse{
		Cedula:    accrual.Cedula,
		Nombre:    accrual.Nombre,
		Lunes:     accrual.Lunes,
		Martes:    accrual.Martes,
		Miercoles: accrual.Miercoles,
		Jueves:    accrual.Jueves,
		Viernes:   accrual.Viernes,
		Sabado:    accrual.Sabado,
		Domingo:   accrual.Domingo,
		Total: accrual.Lunes + accrual.Martes + accrual.Miercoles +
			accrual.Jueves + accrual.Viernes + accrual.Sabado + accrual.Domingo,
	}
}
