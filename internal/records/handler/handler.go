// Package handler exposes the record endpoints. Both are session-gated; the
// role checks themselves live in the records service and, finally, in the
// ledger contract.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"medledger/internal/domain"
	"medledger/internal/platform/middleware"
	"medledger/internal/records/service"
	"medledger/internal/transport/http/shared"
	dErrors "medledger/pkg/domain-errors"
	"medledger/pkg/requestcontext"
)

// Service is the records surface this handler consumes.
type Service interface {
	AddRecord(ctx context.Context, sess domain.Session, req service.AddRecordRequest) error
	ViewRecords(ctx context.Context, sess domain.Session, patient string) (service.View, error)
}

// Handler handles the record endpoints.
type Handler struct {
	logger   *slog.Logger
	records  Service
	resolver middleware.SessionResolver
}

// New creates a records Handler.
func New(records Service, resolver middleware.SessionResolver, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, records: records, resolver: resolver}
}

// Register registers the record routes. The router passed in already carries
// the shared middleware chain.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireAuth(h.resolver, h.logger))
		pr.Post("/records", h.handleAddRecord)
		pr.Get("/records/{patient}", h.handleViewRecords)
	})
}

type addRecordRequest struct {
	Patient     string `json:"patient"`
	DataRef     string `json:"dataRef"`
	Description string `json:"description"`
	DrugUsed    string `json:"drugUsed"`
	Quantity    uint64 `json:"quantity"`
	Cause       string `json:"cause"`
}

func (h *Handler) handleAddRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, ok := requestcontext.SessionFrom(ctx)
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req addRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid request body"))
		return
	}

	err := h.records.AddRecord(ctx, sess, service.AddRecordRequest{
		Patient:     req.Patient,
		DataRef:     req.DataRef,
		Description: req.Description,
		DrugUsed:    req.DrugUsed,
		Quantity:    req.Quantity,
		Cause:       req.Cause,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "add record rejected",
			"error", err,
			"caller", sess.Wallet,
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}

	// The response names the patient so clients can re-query the history;
	// read-your-writes is the caller's job.
	shared.WriteJSON(w, http.StatusCreated, map[string]string{
		"message": "record added",
		"patient": domain.NormalizeWallet(req.Patient),
	})
}

type recordResponse struct {
	Patient     string    `json:"patient"`
	DataRef     string    `json:"dataRef"`
	Description string    `json:"description"`
	DrugUsed    string    `json:"drugUsed"`
	Quantity    uint64    `json:"quantity"`
	Cause       string    `json:"cause"`
	Creator     string    `json:"creator"`
	Timestamp   time.Time `json:"timestamp"`
}

type drugDetailResponse struct {
	DrugUsed string `json:"drugUsed"`
	Quantity uint64 `json:"quantity"`
	Cause    string `json:"cause"`
}

type viewResponse struct {
	Patient    string               `json:"patient"`
	Projection string               `json:"projection"`
	Records    []recordResponse     `json:"records,omitempty"`
	Drugs      []drugDetailResponse `json:"drugs,omitempty"`
	Message    string               `json:"message,omitempty"`
}

func (h *Handler) handleViewRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, ok := requestcontext.SessionFrom(ctx)
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	view, err := h.records.ViewRecords(ctx, sess, chi.URLParam(r, "patient"))
	if err != nil {
		h.logger.WarnContext(ctx, "view records rejected",
			"error", err,
			"caller", sess.Wallet,
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}

	resp := viewResponse{Patient: view.Patient, Projection: string(view.Projection)}
	for _, rec := range view.Records {
		resp.Records = append(resp.Records, recordResponse{
			Patient:     rec.Patient,
			DataRef:     rec.DataRef,
			Description: rec.Description,
			DrugUsed:    rec.DrugUsed,
			Quantity:    rec.Quantity,
			Cause:       rec.Cause,
			Creator:     rec.Creator,
			Timestamp:   rec.Timestamp,
		})
	}
	for _, d := range view.Drugs {
		resp.Drugs = append(resp.Drugs, drugDetailResponse{
			DrugUsed: d.DrugUsed,
			Quantity: d.Quantity,
			Cause:    d.Cause,
		})
	}
	if view.Empty() {
		resp.Message = "no records found for this patient"
	}

	shared.WriteJSON(w, http.StatusOK, resp)
}
