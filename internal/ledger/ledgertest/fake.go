// Package ledgertest provides an in-memory ledger that enforces the same
// access rules, with the same revert wording, as the deployed contract. Tests
// use it where they need contract semantics end to end rather than a mock's
// scripted answers.
package ledgertest

import (
	"context"
	"sync"
	"time"

	"medledger/internal/domain"
	"medledger/internal/ledger"
)

// Fake is a concurrency-safe stand-in for the ledger contract.
type Fake struct {
	mu         sync.Mutex
	identities map[string]domain.LedgerIdentity
	records    map[string][]domain.MedicalRecord
	calls      map[string]int
	failures   map[string]error
	now        func() time.Time
}

func New() *Fake {
	return &Fake{
		identities: make(map[string]domain.LedgerIdentity),
		records:    make(map[string][]domain.MedicalRecord),
		calls:      make(map[string]int),
		failures:   make(map[string]error),
		now:        time.Now,
	}
}

// SetClock overrides the timestamp source for appended records.
func (f *Fake) SetClock(now func() time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = now
}

// FailWith makes every subsequent call of the named method return err until
// cleared with a nil err. Used to simulate an unreachable or broke operator.
func (f *Fake) FailWith(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failures, method)
		return
	}
	f.failures[method] = err
}

// Calls reports how many times the named method was invoked.
func (f *Fake) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// Seed installs an identity directly, bypassing the operator path. Tests use
// it to construct split states where only the ledger side knows a wallet.
func (f *Fake) Seed(ident domain.LedgerIdentity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.identities[domain.NormalizeWallet(ident.Wallet)] = ident
}

func (f *Fake) begin(method string) error {
	f.calls[method]++
	if err := f.failures[method]; err != nil {
		return err
	}
	return nil
}

func (f *Fake) RegisterIdentity(_ context.Context, wallet, username string, role domain.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("registerUser"); err != nil {
		return err
	}
	key := domain.NormalizeWallet(wallet)
	if _, ok := f.identities[key]; ok {
		return ledger.ClassifyRevert("User already registered")
	}
	f.identities[key] = domain.LedgerIdentity{Wallet: key, Username: username, Role: role}
	return nil
}

func (f *Fake) GetIdentity(_ context.Context, wallet string) (domain.LedgerIdentity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("getUser"); err != nil {
		return domain.LedgerIdentity{}, err
	}
	ident, ok := f.identities[domain.NormalizeWallet(wallet)]
	if !ok {
		return domain.LedgerIdentity{}, ledger.ClassifyRevert("User is not registered")
	}
	return ident, nil
}

func (f *Fake) AddRecord(_ context.Context, caller string, rec domain.MedicalRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("addRecord"); err != nil {
		return err
	}
	callerIdent, ok := f.identities[domain.NormalizeWallet(caller)]
	if !ok {
		return ledger.ClassifyRevert("Caller is not a registered user on blockchain")
	}
	if callerIdent.Role != domain.RoleDoctor {
		return ledger.ClassifyRevert("Only Doctors can add records on blockchain")
	}
	patient := domain.NormalizeWallet(rec.Patient)
	if err := f.requirePatient(patient); err != nil {
		return err
	}
	stored := rec
	stored.Patient = patient
	stored.Creator = domain.NormalizeWallet(caller)
	stored.Timestamp = f.now().UTC()
	f.records[patient] = append(f.records[patient], stored)
	return nil
}

func (f *Fake) GetPatientRecords(_ context.Context, caller, patient string) ([]domain.MedicalRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("getPatientRecords"); err != nil {
		return nil, err
	}
	callerIdent, ok := f.identities[domain.NormalizeWallet(caller)]
	if !ok {
		return nil, ledger.ClassifyRevert("Caller is not a registered user on blockchain")
	}
	switch callerIdent.Role {
	case domain.RolePatient:
		if !domain.SameWallet(caller, patient) {
			return nil, ledger.ClassifyRevert("Patients can only view their own records")
		}
	case domain.RoleDoctor, domain.RoleInsuranceCompany:
		// may view any registered patient
	default:
		return nil, ledger.ClassifyRevert("Your role does not have permission to view full patient records")
	}
	key := domain.NormalizeWallet(patient)
	if err := f.requirePatient(key); err != nil {
		return nil, err
	}
	out := make([]domain.MedicalRecord, len(f.records[key]))
	copy(out, f.records[key])
	return out, nil
}

func (f *Fake) GetDrugDetails(_ context.Context, caller, patient string) (ledger.DrugDetailColumns, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin("getDrugDetailsForManufacturer"); err != nil {
		return ledger.DrugDetailColumns{}, err
	}
	callerIdent, ok := f.identities[domain.NormalizeWallet(caller)]
	if !ok {
		return ledger.DrugDetailColumns{}, ledger.ClassifyRevert("Caller is not a registered user on blockchain")
	}
	if callerIdent.Role != domain.RoleDrugManufacturer {
		return ledger.DrugDetailColumns{}, ledger.ClassifyRevert("Caller does not have the required role on blockchain")
	}
	key := domain.NormalizeWallet(patient)
	if err := f.requirePatient(key); err != nil {
		return ledger.DrugDetailColumns{}, err
	}
	var cols ledger.DrugDetailColumns
	for _, rec := range f.records[key] {
		cols.DataRefs = append(cols.DataRefs, rec.DataRef)
		cols.Drugs = append(cols.Drugs, rec.DrugUsed)
		cols.Quantities = append(cols.Quantities, rec.Quantity)
		cols.Causes = append(cols.Causes, rec.Cause)
		cols.Timestamps = append(cols.Timestamps, rec.Timestamp.Unix())
		cols.Creators = append(cols.Creators, rec.Creator)
	}
	return cols, nil
}

func (f *Fake) requirePatient(wallet string) error {
	ident, ok := f.identities[wallet]
	if !ok || ident.Role != domain.RolePatient {
		return ledger.ClassifyRevert("Target address is not a registered Patient on blockchain")
	}
	return nil
}

var _ ledger.Client = (*Fake)(nil)
