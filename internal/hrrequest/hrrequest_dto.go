package hrrequest

import "time"

type SubmitHRRequest struct {
	Type               string         `json:"type" binding:"required,oneof=add_employee edit_employee salary_change position_change department_change status_change"`
	Title              string         `json:"title" binding:"required"`
	Description        string         `json:"description"`
	CurrentData        map[string]any `json:"current_data"`
	ProposedData       map[string]any `json:"proposed_data" binding:"required"`
	TargetCedula       *string        `json:"target_cedula"`
	TargetEmployeeName *string        `json:"target_employee_name"`
}

type DecisionRequest struct {
	Comments string `json:"comments"`
}

type ApprovalResponse struct {
	ApprovedBy string `json:"approved_by"`
	ApprovedAt string `json:"approved_at"`
	Comments   string `json:"comments,omitempty"`
}

type HRRequestResponse struct {
	ID                 string         `json:"id"`
	Type               string         `json:"type"`
	TypeLabel          string         `json:"type_label"`
	RequestedBy        string         `json:"requested_by"`
	RequestedByName    string         `json:"requested_by_name"`
	RequestedByRole    string         `json:"requested_by_role"`
	Title              string         `json:"title"`
	Description        string         `json:"description,omitempty"`
	CurrentData        map[string]any `json:"current_data,omitempty"`
	ProposedData       map[string]any `json:"proposed_data"`
	TargetCedula       *string        `json:"target_cedula,omitempty"`
	TargetEmployeeName *string        `json:"target_employee_name,omitempty"`
	Status             string         `json:"status"`
	StatusLabel        string         `json:"status_label"`

	GMApproval *ApprovalResponse `json:"gm_approval,omitempty"`
	HRApproval *ApprovalResponse `json:"hr_approval,omitempty"`

	RejectedBy      *string `json:"rejected_by,omitempty"`
	RejectedAt      *string `json:"rejected_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`

	SubmittedAt string  `json:"submitted_at"`
	ProcessedAt *string `json:"processed_at,omitempty"`
}

var typeLabels = map[RequestType]string{
	TypeAddEmployee:      "Agregar Empleado",
	TypeEditEmployee:     "Editar Empleado",
	TypeSalaryChange:     "Cambio de Salario",
	TypePositionChange:   "Cambio de Posición",
	TypeDepartmentChange: "Cambio de Departamento",
	TypeStatusChange:     "Cambio de Estado",
}

var statusLabels = map[string]string{
	StatusPending:      "Pendiente",
	StatusApprovedByGM: "Aprobada por Gerente General",
	StatusApprovedByHR: "Aprobada por RRHH",
	StatusApproved:     "Aprobada",
	StatusRejected:     "Rechazada",
}

func TypeLabel(t RequestType) string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return string(t)
}

func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

func mapToResponse(req HRRequest) HRRequestResponse {
	resp := HRRequestResponse{
		ID:                 req.ID.String(),
		Type:               string(req.Type),
		TypeLabel:          TypeLabel(req.Type),
		RequestedBy:        req.RequestedBy,
		RequestedByName:    req.RequestedByName,
		RequestedByRole:    req.RequestedByRole,
		Title:              req.Title,
		Description:        req.Description,
		CurrentData:        req.CurrentData,
		ProposedData:       redactProposedData(req.ProposedData),
		TargetCedula:       req.TargetCedula,
		TargetEmployeeName: req.TargetEmployeeName,
		Status:             req.Status,
		StatusLabel:        StatusLabel(req.Status),
		RejectedBy:         req.RejectedBy,
		RejectionReason:    req.RejectionReason,
		SubmittedAt:        req.SubmittedAt.Format(time.RFC3339),
	}

	if req.GMApprovedAt != nil {
		resp.GMApproval = &ApprovalResponse{
			ApprovedBy: deref(req.GMApprovedBy),
			ApprovedAt: req.GMApprovedAt.Format(time.RFC3339),
			Comments:   deref(req.GMComments),
		}
	}
	if req.HRApprovedAt != nil {
		resp.HRApproval = &ApprovalResponse{
			ApprovedBy: deref(req.HRApprovedBy),
			ApprovedAt: req.HRApprovedAt.Format(time.RFC3339),
			Comments:   deref(req.HRComments),
		}
	}
	if req.RejectedAt != nil {
		v := req.RejectedAt.Format(time.RFC3339)
		resp.RejectedAt = &v
	}
	if req.ProcessedAt != nil {
		v := req.ProcessedAt.Format(time.RFC3339)
		resp.ProcessedAt = &v
	}

	return resp
}

func mapToListResponse(reqs []HRRequest) []HRRequestResponse {
	resp := make([]HRRequestResponse, len(reqs))
	for i, req := range reqs {
		resp[i] = mapToResponse(req)
	}
	return resp
}

// redactProposedData strips the one-time credential so it never appears
// on any read, regardless of whether the request was applied yet.
func redactProposedData(proposed JSONMap) map[string]any {
	if proposed == nil {
		return nil
	}
	if _, ok := proposed[passwordKey]; !ok {
		return proposed
	}

	redacted := make(map[string]any, len(proposed))
	for key, value := range proposed {
		if key == passwordKey {
			continue
		}
		redacted[key] = value
	}
	return redacted
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
