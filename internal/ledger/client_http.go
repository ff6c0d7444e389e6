package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"medledger/internal/domain"
	"medledger/internal/platform/metrics"
	dErrors "medledger/pkg/domain-errors"
)

// Contract method names. These are the ledger's ABI surface; the bridge
// forwards them verbatim.
const (
	methodRegisterUser   = "registerUser"
	methodGetUser        = "getUser"
	methodAddRecord      = "addRecord"
	methodGetRecords     = "getPatientRecords"
	methodGetDrugDetails = "getDrugDetailsForManufacturer"
)

// HTTPClient talks to the ledger gateway node over its JSON bridge. One
// request maps to one contract call; the bridge signs mutating calls with the
// key presented in the envelope.
type HTTPClient struct {
	base     string
	http     *http.Client
	operator domain.Operator
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

// HTTPClientOption configures an HTTPClient.
type HTTPClientOption func(*HTTPClient)

func WithLogger(logger *slog.Logger) HTTPClientOption {
	return func(c *HTTPClient) { c.logger = logger }
}

func WithMetrics(m *metrics.Metrics) HTTPClientOption {
	return func(c *HTTPClient) { c.metrics = m }
}

// WithHTTPClient overrides the underlying HTTP client; the timeout on it
// bounds every ledger call.
func WithHTTPClient(h *http.Client) HTTPClientOption {
	return func(c *HTTPClient) { c.http = h }
}

// NewHTTPClient constructs a ledger client against the bridge at base. The
// operator identity signs identity mirror writes only; record mutations are
// signed with the caller's own wallet by the bridge.
func NewHTTPClient(base string, operator domain.Operator, timeout time.Duration, opts ...HTTPClientOption) *HTTPClient {
	c := &HTTPClient{
		base:     base,
		operator: operator,
		http:     &http.Client{Timeout: timeout},
		tracer:   otel.Tracer("medledger/ledger"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type rpcRequest struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	From   string `json:"from"`
	Key    string `json:"key,omitempty"`
	Params any    `json:"params"`
}

type rpcError struct {
	Message string `json:"message"`
	Revert  bool   `json:"revert"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type wireRecord struct {
	DataHash    string `json:"dataHash"`
	Description string `json:"description"`
	DrugUsed    string `json:"drugUsed"`
	Quantity    uint64 `json:"quantity"`
	Cause       string `json:"cause"`
	Creator     string `json:"creator"`
	Timestamp   int64  `json:"timestamp"`
}

func (c *HTTPClient) RegisterIdentity(ctx context.Context, wallet, username string, role domain.Role) error {
	params := map[string]any{
		"wallet":   domain.NormalizeWallet(wallet),
		"username": username,
		"role":     uint8(role),
	}
	return c.call(ctx, methodRegisterUser, c.operator.Address, c.operator.Key, params, nil, true)
}

func (c *HTTPClient) GetIdentity(ctx context.Context, wallet string) (domain.LedgerIdentity, error) {
	var out struct {
		Username string `json:"username"`
		Role     uint8  `json:"role"`
	}
	params := map[string]any{"wallet": domain.NormalizeWallet(wallet)}
	if err := c.call(ctx, methodGetUser, c.operator.Address, "", params, &out, false); err != nil {
		return domain.LedgerIdentity{}, err
	}
	return domain.LedgerIdentity{
		Wallet:   domain.NormalizeWallet(wallet),
		Username: out.Username,
		Role:     domain.Role(out.Role),
	}, nil
}

func (c *HTTPClient) AddRecord(ctx context.Context, caller string, rec domain.MedicalRecord) error {
	params := map[string]any{
		"patient":     domain.NormalizeWallet(rec.Patient),
		"dataHash":    rec.DataRef,
		"description": rec.Description,
		"drugUsed":    rec.DrugUsed,
		"quantity":    rec.Quantity,
		"cause":       rec.Cause,
	}
	return c.call(ctx, methodAddRecord, caller, "", params, nil, true)
}

func (c *HTTPClient) GetPatientRecords(ctx context.Context, caller, patient string) ([]domain.MedicalRecord, error) {
	var out []wireRecord
	params := map[string]any{"patient": domain.NormalizeWallet(patient)}
	if err := c.call(ctx, methodGetRecords, caller, "", params, &out, false); err != nil {
		return nil, err
	}
	records := make([]domain.MedicalRecord, 0, len(out))
	for _, w := range out {
		records = append(records, domain.MedicalRecord{
			Patient:     domain.NormalizeWallet(patient),
			DataRef:     w.DataHash,
			Description: w.Description,
			DrugUsed:    w.DrugUsed,
			Quantity:    w.Quantity,
			Cause:       w.Cause,
			Creator:     w.Creator,
			Timestamp:   time.Unix(w.Timestamp, 0).UTC(),
		})
	}
	return records, nil
}

func (c *HTTPClient) GetDrugDetails(ctx context.Context, caller, patient string) (DrugDetailColumns, error) {
	var out DrugDetailColumns
	params := map[string]any{"patient": domain.NormalizeWallet(patient)}
	if err := c.call(ctx, methodGetDrugDetails, caller, "", params, &out, false); err != nil {
		return DrugDetailColumns{}, err
	}
	return out, nil
}

// call performs one bridge round trip. Classification of failures:
//   - transport error before/without a response: LedgerUnavailable, except a
//     deadline on a mutating call, which is SubmissionUncertain because the
//     submission may have landed.
//   - bridge-level failure (non-revert error, bad status): LedgerUnavailable.
//   - revert: run through the classification table.
func (c *HTTPClient) call(ctx context.Context, method, from, key string, params, out any, mutating bool) error {
	ctx, span := c.tracer.Start(ctx, "ledger."+method,
		trace.WithAttributes(attribute.String("ledger.method", method)))
	defer span.End()

	start := time.Now()
	err := c.do(ctx, method, from, key, params, out, mutating)
	outcome := "ok"
	if err != nil {
		outcome = string(dErrors.CodeOf(err))
		span.RecordError(err)
		if c.logger != nil {
			c.logger.WarnContext(ctx, "ledger call failed",
				"method", method,
				"outcome", outcome,
				"error", err,
			)
		}
	}
	c.metrics.ObserveLedgerCall(method, outcome, start)
	return err
}

func (c *HTTPClient) do(ctx context.Context, method, from, key string, params, out any, mutating bool) error {
	body, err := json.Marshal(rpcRequest{
		ID:     uuid.NewString(),
		Method: method,
		From:   domain.NormalizeWallet(from),
		Key:    key,
		Params: params,
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "encode ledger request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/rpc", bytes.NewReader(body))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "build ledger request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if mutating && (errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || isClientTimeout(err)) {
			return dErrors.Wrap(err, dErrors.CodeSubmissionUncertain,
				fmt.Sprintf("%s submitted but confirmation timed out; outcome unknown, do not resubmit blindly", method))
		}
		return dErrors.Wrap(err, dErrors.CodeLedgerUnavailable, "ledger bridge unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return dErrors.Newf(dErrors.CodeLedgerUnavailable, "ledger bridge returned status %d: %s", resp.StatusCode, string(raw))
	}

	var env rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return dErrors.Wrap(err, dErrors.CodeLedgerUnavailable, "decode ledger response")
	}
	if env.Error != nil {
		if env.Error.Revert {
			return ClassifyRevert(env.Error.Message)
		}
		return dErrors.New(dErrors.CodeLedgerUnavailable, env.Error.Message)
	}
	if out != nil {
		if err := json.Unmarshal(env.Result, out); err != nil {
			return dErrors.Wrap(err, dErrors.CodeLedgerUnavailable, "decode ledger result")
		}
	}
	return nil
}

// isClientTimeout catches net/http's own timeout, which does not unwrap to
// context.DeadlineExceeded on all paths.
func isClientTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
