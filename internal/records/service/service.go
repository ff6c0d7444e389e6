// Package service is the role-gated access path onto the ledger's medical
// records. It enforces the local preconditions that are cheap to check before
// any remote call; the ledger independently re-checks all of them, so a race
// between session role and ledger role resolves to the ledger's answer.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"log/slog"
	"time"

	"medledger/internal/audit"
	"medledger/internal/domain"
	"medledger/internal/ledger"
	"medledger/internal/platform/metrics"
	dErrors "medledger/pkg/domain-errors"
)

// Ledger is the slice of the ledger client this service consumes.
type Ledger interface {
	AddRecord(ctx context.Context, caller string, rec domain.MedicalRecord) error
	GetPatientRecords(ctx context.Context, caller, patient string) ([]domain.MedicalRecord, error)
	GetDrugDetails(ctx context.Context, caller, patient string) (ledger.DrugDetailColumns, error)
}

// AuditPublisher records record-access events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service is the record access gateway.
type Service struct {
	ledger Ledger

	logger    *slog.Logger
	publisher AuditPublisher
	metrics   *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs a Service.
func New(ledger Ledger, opts ...Option) *Service {
	s := &Service{ledger: ledger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddRecordRequest carries a new record to append.
type AddRecordRequest struct {
	Patient     string
	DataRef     string
	Description string
	DrugUsed    string
	Quantity    uint64
	Cause       string
}

// AddRecord appends a record to a patient's history on behalf of the session.
// Only doctors may write; that is checked here first so a non-doctor never
// costs a remote call, and again by the ledger, which is authoritative.
func (s *Service) AddRecord(ctx context.Context, sess domain.Session, req AddRecordRequest) error {
	if sess.Role != domain.RoleDoctor {
		return dErrors.New(dErrors.CodePermissionDenied, "only doctors can add records")
	}
	if err := validateAddRecord(req); err != nil {
		return err
	}

	rec := domain.MedicalRecord{
		Patient:     domain.NormalizeWallet(req.Patient),
		DataRef:     req.DataRef,
		Description: req.Description,
		DrugUsed:    req.DrugUsed,
		Quantity:    req.Quantity,
		Cause:       req.Cause,
		Creator:     sess.Wallet,
		Timestamp:   time.Now().UTC(),
	}
	if err := s.ledger.AddRecord(ctx, sess.Wallet, rec); err != nil {
		return err
	}

	s.emit(ctx, audit.Event{
		Action: audit.ActionRecordAdded,
		Wallet: sess.Wallet,
		Role:   sess.Role.String(),
		Detail: rec.Patient,
	})
	if s.metrics != nil {
		s.metrics.RecordsAddedTotal.Inc()
	}
	return nil
}

// View is the role-projected result of a records query. Exactly one of
// Records and Drugs is populated, matching Projection. An existing patient
// with no history yields an empty View with no error.
type View struct {
	Patient    string
	Projection domain.Projection
	Records    []domain.MedicalRecord
	Drugs      []domain.DrugDetail
}

// Empty reports whether the query matched a patient with no records.
func (v View) Empty() bool {
	return len(v.Records) == 0 && len(v.Drugs) == 0
}

// ViewRecords reads a patient's history projected for the session's role.
// Patients are always served their own history: the requested patient address
// is ignored for them rather than rejected, so a patient cannot probe other
// addresses for existence. Drug manufacturers get the reduced drug
// projection; the withheld fields never reach this package's callers.
func (s *Service) ViewRecords(ctx context.Context, sess domain.Session, patient string) (View, error) {
	target := domain.NormalizeWallet(patient)
	switch sess.Role {
	case domain.RolePatient:
		target = sess.Wallet
	case domain.RoleDoctor, domain.RoleInsuranceCompany, domain.RoleDrugManufacturer:
		if !domain.ValidWallet(patient) {
			return View{}, dErrors.New(dErrors.CodeValidation, "patient wallet address is not a valid address")
		}
	default:
		return View{}, dErrors.New(dErrors.CodePermissionDenied, "your role does not have permission to view patient records")
	}

	view := View{Patient: target, Projection: domain.ProjectionFor(sess.Role)}
	switch view.Projection {
	case domain.ProjectionDrug:
		cols, err := s.ledger.GetDrugDetails(ctx, sess.Wallet, target)
		if err != nil {
			return View{}, err
		}
		view.Drugs = zipDrugDetails(cols)
	default:
		records, err := s.ledger.GetPatientRecords(ctx, sess.Wallet, target)
		if err != nil {
			return View{}, err
		}
		view.Records = records
	}

	s.emit(ctx, audit.Event{
		Action: audit.ActionRecordsViewed,
		Wallet: sess.Wallet,
		Role:   sess.Role.String(),
		Detail: target,
	})
	if s.metrics != nil {
		s.metrics.RecordViewsTotal.WithLabelValues(string(view.Projection)).Inc()
	}
	return view, nil
}

func validateAddRecord(req AddRecordRequest) error {
	switch {
	case !domain.ValidWallet(req.Patient):
		return dErrors.New(dErrors.CodeValidation, "patient wallet address is not a valid address")
	case req.DataRef == "" || req.Description == "" || req.DrugUsed == "" || req.Cause == "":
		return dErrors.New(dErrors.CodeValidation, "data reference, description, drug used and cause are required")
	case req.Quantity == 0:
		return dErrors.New(dErrors.CodeValidation, "quantity must be greater than zero")
	}
	return nil
}

// zipDrugDetails turns the contract's parallel arrays into rows. Columns the
// projection withholds are dropped here, before the result leaves the
// service. Ragged input is truncated to the shortest column rather than
// padded with invented values.
func zipDrugDetails(cols ledger.DrugDetailColumns) []domain.DrugDetail {
	n := cols.Len()
	if len(cols.Quantities) < n {
		n = len(cols.Quantities)
	}
	if len(cols.Causes) < n {
		n = len(cols.Causes)
	}
	details := make([]domain.DrugDetail, 0, n)
	for i := 0; i < n; i++ {
		details = append(details, domain.DrugDetail{
			DrugUsed: cols.Drugs[i],
			Quantity: cols.Quantities[i],
			Cause:    cols.Causes[i],
		})
	}
	return details
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "audit emit failed", "action", event.Action, "error", err)
	}
}
