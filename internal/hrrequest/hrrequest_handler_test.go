package hrrequest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Arce-y-Vargas/arceyvargas-system/internal/hrrequest"
	hrrequesterrors "github.com/Arce-y-Vargas/arceyvargas-system/internal/hrrequest/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeRequestService struct {
	submitFn    func(ctx context.Context, requestedBy, requestedByName, requestedByRole string, req hrrequest.SubmitHRRequest) (hrrequest.HRRequestResponse, error)
	getAllFn    func(ctx context.Context, filters hrrequest.ListFilters) ([]hrrequest.HRRequestResponse, error)
	getByIDFn   func(ctx context.Context, id string) (hrrequest.HRRequestResponse, error)
	approveGMFn func(ctx context.Context, id, approverName, comments string) (hrrequest.HRRequestResponse, error)
	approveHRFn func(ctx context.Context, id, approverName, comments string) (hrrequest.HRRequestResponse, error)
	rejectFn    func(ctx context.Context, id, approverName, reason string) (hrrequest.HRRequestResponse, error)
}

func (f *fakeRequestService) Submit(ctx context.Context, requestedBy, requestedByName, requestedByRole string, req hrrequest.SubmitHRRequest) (hrrequest.HRRequestResponse, error) {
	return f.submitFn(ctx, requestedBy, requestedByName, requestedByRole, req)
}
func (f *fakeRequestService) GetAll(ctx context.Context, filters hrrequest.ListFilters) ([]hrrequest.HRRequestResponse, error) {
	return f.getAllFn(ctx, filters)
}
func (f *fakeRequestService) GetByID(ctx context.Context, id string) (hrrequest.HRRequestResponse, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeRequestService) ApproveGM(ctx context.Context, id, approverName, comments string) (hrrequest.HRRequestResponse, error) {
	return f.approveGMFn(ctx, id, approverName, comments)
}
func (f *fakeRequestService) ApproveHR(ctx context.Context, id, approverName, comments string) (hrrequest.HRRequestResponse, error) {
	return f.approveHRFn(ctx, id, approverName, comments)
}
func (f *fakeRequestService) Reject(ctx context.Context, id, approverName, reason string) (hrrequest.HRRequestResponse, error) {
	return f.rejectFn(ctx, id, approverName, reason)
}

func TestHRRequestHandler_Submit(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		userID := uuid.New().String()
		svc := &fakeRequestService{
			submitFn: func(ctx context.Context, requestedBy, requestedByName, requestedByRole string, req hrrequest.SubmitHRRequest) (hrrequest.HRRequestResponse, error) {
				assert.Equal(t, userID, requestedBy)
				assert.Equal(t, "Laura Solano", requestedByName)
				assert.Equal(t, "supervisor", requestedByRole)
				assert.Equal(t, "salary_change", req.Type)
				return hrrequest.HRRequestResponse{
					ID:     uuid.New().String(),
					Type:   req.Type,
					Status: hrrequest.StatusPending,
				}, nil
			},
		}

		h := hrrequest.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"type":"salary_change","title":"Ajuste salarial","proposed_data":{"salario":950000},"target_cedula":"102340567"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/hr-requests", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", userID)
		c.Set("name", "Laura Solano")
		c.Set("role", "supervisor")

		h.Submit(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got hrrequest.HRRequestResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, hrrequest.StatusPending, got.Status)
	})

	t.Run("negative validation error", func(t *testing.T) {
		h := hrrequest.NewHandler(&fakeRequestService{}, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/hr-requests", strings.NewReader(`{"type":"unknown_kind"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Submit(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("negative service error", func(t *testing.T) {
		svc := &fakeRequestService{
			submitFn: func(ctx context.Context, requestedBy, requestedByName, requestedByRole string, req hrrequest.SubmitHRRequest) (hrrequest.HRRequestResponse, error) {
				return hrrequest.HRRequestResponse{}, errors.New("insert failed")
			},
		}
		h := hrrequest.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"type":"add_employee","title":"Nuevo empleado","proposed_data":{"cedula":"405550123","nombre":"Marta Rojas"}}`
		c.Request = httptest.NewRequest(http.MethodPost, "/hr-requests", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Submit(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	})
}

func TestHRRequestHandler_GetAll(t *testing.T) {
	t.Run("success passes query filters", func(t *testing.T) {
		svc := &fakeRequestService{
			getAllFn: func(ctx context.Context, filters hrrequest.ListFilters) ([]hrrequest.HRRequestResponse, error) {
				assert.Equal(t, "pending", filters.Status)
				assert.Equal(t, "add_employee", filters.Type)
				return []hrrequest.HRRequestResponse{
					{ID: uuid.New().String(), Type: "add_employee", Status: hrrequest.StatusPending},
				}, nil
			},
		}
		h := hrrequest.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/hr-requests?status=pending&type=add_employee", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got []hrrequest.HRRequestResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got, 1)
	})
}

func TestHRRequestHandler_Decisions(t *testing.T) {
	id := uuid.New().String()

	t.Run("approve gm success", func(t *testing.T) {
		svc := &fakeRequestService{
			approveGMFn: func(ctx context.Context, reqID, approverName, comments string) (hrrequest.HRRequestResponse, error) {
				assert.Equal(t, id, reqID)
				assert.Equal(t, "Carlos Arce", approverName)
				assert.Equal(t, "luce bien", comments)
				return hrrequest.HRRequestResponse{ID: reqID, Status: hrrequest.StatusApprovedByGM}, nil
			},
		}
		h := hrrequest.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/hr-requests/"+id+"/approve-gm", strings.NewReader(`{"comments":"luce bien"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = []gin.Param{{Key: "id", Value: id}}
		c.Set("name", "Carlos Arce")

		h.ApproveGM(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("reject without body uses empty reason", func(t *testing.T) {
		svc := &fakeRequestService{
			rejectFn: func(ctx context.Context, reqID, approverName, reason string) (hrrequest.HRRequestResponse, error) {
				assert.Empty(t, reason)
				return hrrequest.HRRequestResponse{ID: reqID, Status: hrrequest.StatusRejected}, nil
			},
		}
		h := hrrequest.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/hr-requests/"+id+"/reject", nil)
		c.Params = []gin.Param{{Key: "id", Value: id}}
		c.Set("name", "Ana Vargas")

		h.Reject(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative track already approved", func(t *testing.T) {
		svc := &fakeRequestService{
			approveHRFn: func(ctx context.Context, reqID, approverName, comments string) (hrrequest.HRRequestResponse, error) {
				return hrrequest.HRRequestResponse{}, hrrequesterrors.ErrTrackAlreadyApproved
			},
		}
		h := hrrequest.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/hr-requests/"+id+"/approve-hr", nil)
		c.Params = []gin.Param{{Key: "id", Value: id}}

		h.ApproveHR(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
	})

	t.Run("negative concurrent update maps to conflict", func(t *testing.T) {
		svc := &fakeRequestService{
			approveGMFn: func(ctx context.Context, reqID, approverName, comments string) (hrrequest.HRRequestResponse, error) {
				return hrrequest.HRRequestResponse{}, hrrequesterrors.ErrConcurrentUpdate
			},
		}
		h := hrrequest.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/hr-requests/"+id+"/approve-gm", nil)
		c.Params = []gin.Param{{Key: "id", Value: id}}

		h.ApproveGM(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "CONFLICT", env.Error.Code)
	})

	t.Run("negative not found", func(t *testing.T) {
		svc := &fakeRequestService{
			getByIDFn: func(ctx context.Context, reqID string) (hrrequest.HRRequestResponse, error) {
				return hrrequest.HRRequestResponse{}, hrrequesterrors.ErrRequestNotFound
			},
		}
		h := hrrequest.NewHandler(svc, nil)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/hr-requests/"+id, nil)
		c.Params = []gin.Param{{Key: "id", Value: id}}

		h.GetByID(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})
}
