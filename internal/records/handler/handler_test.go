package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medledger/internal/domain"
	"medledger/internal/records/service"
	dErrors "medledger/pkg/domain-errors"
)

const (
	doctorWallet  = "0x90f8bf6a479f320ead074411a4b0e7944ea8c9c1"
	patientWallet = "0xffcf8fdee72ac11b5c542428b35eef5769c409f0"
)

type stubService struct {
	addErr   error
	view     service.View
	viewErr  error
	gotSess  domain.Session
	gotAdd   service.AddRecordRequest
	gotQuery string
}

func (s *stubService) AddRecord(_ context.Context, sess domain.Session, req service.AddRecordRequest) error {
	s.gotSess = sess
	s.gotAdd = req
	return s.addErr
}

func (s *stubService) ViewRecords(_ context.Context, sess domain.Session, patient string) (service.View, error) {
	s.gotSess = sess
	s.gotQuery = patient
	return s.view, s.viewErr
}

type stubResolver struct {
	sess domain.Session
	err  error
}

func (s stubResolver) ResolveSession(_ context.Context, _ string) (domain.Session, error) {
	return s.sess, s.err
}

func newRouter(svc *stubService, sess domain.Session) http.Handler {
	r := chi.NewRouter()
	New(svc, stubResolver{sess: sess}, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string, authorized bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("Authorization", "Bearer tok")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func doctorSession() domain.Session {
	return domain.Session{ID: "sess-1", Wallet: doctorWallet, Role: domain.RoleDoctor}
}

func TestRoutesRequireAuth(t *testing.T) {
	h := newRouter(&stubService{}, doctorSession())

	rec := do(t, h, http.MethodPost, "/records", "{}", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/records/"+patientWallet, "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleAddRecord(t *testing.T) {
	body := `{"patient":"` + patientWallet + `","dataRef":"QmYwAP","description":"post-op antibiotics","drugUsed":"amoxicillin","quantity":21,"cause":"appendectomy"}`

	t.Run("created", func(t *testing.T) {
		svc := &stubService{}
		rec := do(t, newRouter(svc, doctorSession()), http.MethodPost, "/records", body, true)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, doctorSession(), svc.gotSess)
		assert.Equal(t, patientWallet, svc.gotAdd.Patient)
		assert.Equal(t, uint64(21), svc.gotAdd.Quantity)
		assert.Contains(t, rec.Body.String(), `"patient":"`+patientWallet+`"`)
	})

	t.Run("permission denied", func(t *testing.T) {
		svc := &stubService{addErr: dErrors.New(dErrors.CodePermissionDenied, "only doctors can add records")}
		rec := do(t, newRouter(svc, doctorSession()), http.MethodPost, "/records", body, true)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "permission_denied")
	})

	t.Run("unregistered target", func(t *testing.T) {
		svc := &stubService{addErr: dErrors.New(dErrors.CodeNotRegisteredTarget, "target address is not a registered patient")}
		rec := do(t, newRouter(svc, doctorSession()), http.MethodPost, "/records", body, true)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("submission uncertain", func(t *testing.T) {
		svc := &stubService{addErr: dErrors.New(dErrors.CodeSubmissionUncertain, "ledger call timed out after submission")}
		rec := do(t, newRouter(svc, doctorSession()), http.MethodPost, "/records", body, true)

		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
		assert.Contains(t, rec.Body.String(), "submission_uncertain")
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := do(t, newRouter(&stubService{}, doctorSession()), http.MethodPost, "/records", "{nope", true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleViewRecords_FullProjection(t *testing.T) {
	svc := &stubService{view: service.View{
		Patient:    patientWallet,
		Projection: domain.ProjectionFull,
		Records: []domain.MedicalRecord{{
			Patient:     patientWallet,
			DataRef:     "QmYwAP",
			Description: "post-op antibiotics",
			DrugUsed:    "amoxicillin",
			Quantity:    21,
			Cause:       "appendectomy",
			Creator:     doctorWallet,
			Timestamp:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		}},
	}}
	rec := do(t, newRouter(svc, doctorSession()), http.MethodGet, "/records/"+patientWallet, "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, patientWallet, svc.gotQuery)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "full", resp["projection"])
	records := resp["records"].([]any)
	require.Len(t, records, 1)
	assert.Equal(t, "post-op antibiotics", records[0].(map[string]any)["description"])
}

func TestHandleViewRecords_DrugProjectionWithholdsFields(t *testing.T) {
	svc := &stubService{view: service.View{
		Patient:    patientWallet,
		Projection: domain.ProjectionDrug,
		Drugs:      []domain.DrugDetail{{DrugUsed: "amoxicillin", Quantity: 21, Cause: "appendectomy"}},
	}}
	sess := domain.Session{ID: "sess-2", Wallet: doctorWallet, Role: domain.RoleDrugManufacturer}
	rec := do(t, newRouter(svc, sess), http.MethodGet, "/records/"+patientWallet, "", true)

	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `"projection":"drug"`)
	assert.Contains(t, body, "amoxicillin")
	// Withheld columns must not appear anywhere in the drug projection.
	assert.NotContains(t, body, "dataRef")
	assert.NotContains(t, body, "description")
	assert.NotContains(t, body, "creator")
	assert.NotContains(t, body, "timestamp")
}

func TestHandleViewRecords_EmptyHistory(t *testing.T) {
	svc := &stubService{view: service.View{Patient: patientWallet, Projection: domain.ProjectionFull}}
	rec := do(t, newRouter(svc, doctorSession()), http.MethodGet, "/records/"+patientWallet, "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "no records found for this patient")
}

func TestHandleViewRecords_LedgerRevertPropagates(t *testing.T) {
	svc := &stubService{viewErr: dErrors.New(dErrors.CodeLedgerRejected, "execution reverted for an unknown reason")}
	rec := do(t, newRouter(svc, doctorSession()), http.MethodGet, "/records/"+patientWallet, "", true)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "ledger_rejected")
}
