package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/credit-simulator/internal/application/dto"
	"github.com/bibbank/credit-simulator/internal/application/usecase"
	"github.com/bibbank/credit-simulator/internal/domain/model"
	"github.com/bibbank/credit-simulator/internal/domain/port"
	"github.com/bibbank/credit-simulator/pkg/fixedpoint"
)

// Compile-time assertion that SimulationHandler implements SimulationServiceServer.
var _ SimulationServiceServer = (*SimulationHandler)(nil)

// SimulationHandler implements the gRPC SimulationServiceServer interface.
type SimulationHandler struct {
	UnimplementedSimulationServiceServer
	simulate  *usecase.SimulateUseCase
	batch     *usecase.SimulateBatchUseCase
	getStatus *usecase.GetBatchStatusUseCase
	logger    *slog.Logger
}

// NewSimulationHandler creates a new SimulationHandler.
func NewSimulationHandler(
	simulate *usecase.SimulateUseCase,
	batch *usecase.SimulateBatchUseCase,
	getStatus *usecase.GetBatchStatusUseCase,
	logger *slog.Logger,
) *SimulationHandler {
	return &SimulationHandler{
		simulate:  simulate,
		batch:     batch,
		getStatus: getStatus,
		logger:    logger,
	}
}

// Simulate handles a single simulation.
func (h *SimulationHandler) Simulate(ctx context.Context, req *SimulateRequest) (*SimulateResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	in, err := toSimulationRequest(req, "")
	if err != nil {
		return nil, h.toStatus(ctx, "Simulate", err)
	}

	resp, err := h.simulate.Execute(ctx, in)
	if err != nil {
		return nil, h.toStatus(ctx, "Simulate", err)
	}
	return &SimulateResponse{Simulation: toSimulationMsg(resp)}, nil
}

// SimulateBatch handles a batch. Small batches return results in input order;
// large ones return the acceptance.
func (h *SimulationHandler) SimulateBatch(ctx context.Context, req *SimulateBatchRequest) (*SimulateBatchResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	in := dto.BatchSimulationRequest{
		BatchID:     req.BatchID,
		Simulations: make([]dto.SimulationRequest, 0, len(req.Simulations)),
	}
	for i, sim := range req.Simulations {
		if sim == nil {
			sim = &SimulateRequest{}
		}
		entry, err := toSimulationRequest(sim, indexPrefix(i))
		if err != nil {
			return nil, h.toStatus(ctx, "SimulateBatch", err)
		}
		in.Simulations = append(in.Simulations, entry)
	}

	resp, err := h.batch.Execute(ctx, in)
	if err != nil {
		return nil, h.toStatus(ctx, "SimulateBatch", err)
	}

	out := &SimulateBatchResponse{BatchID: resp.BatchID}
	if resp.IsAccepted() {
		out.Accepted = &AcceptanceMsg{
			BatchID:          resp.Accepted.BatchID,
			Status:           resp.Accepted.Status,
			Message:          resp.Accepted.Message,
			TotalSimulations: int32(resp.Accepted.TotalSimulations),
			AcceptedAt:       resp.Accepted.AcceptedAt.UTC().Format(time.RFC3339Nano),
		}
		return out, nil
	}

	out.Simulations = make([]*SimulationMsg, 0, len(resp.Results))
	for _, r := range resp.Results {
		out.Simulations = append(out.Simulations, toSimulationMsg(r))
	}
	return out, nil
}

// GetBatchStatus returns the latest status snapshot of a batch.
func (h *SimulationHandler) GetBatchStatus(ctx context.Context, req *GetBatchStatusRequest) (*GetBatchStatusResponse, error) {
	if req == nil || req.BatchID == "" {
		return nil, status.Error(codes.InvalidArgument, "batch_id is required")
	}

	resp, err := h.getStatus.Execute(ctx, dto.GetBatchStatusRequest{BatchID: req.BatchID})
	if err != nil {
		return nil, h.toStatus(ctx, "GetBatchStatus", err)
	}

	return &GetBatchStatusResponse{Status: &BatchStatusMsg{
		BatchID:              resp.BatchID,
		Status:               resp.Status,
		Message:              resp.Message,
		Progress:             int32(resp.Progress),
		TotalSimulations:     int32(resp.TotalSimulations),
		ProcessedSimulations: int32(resp.ProcessedSimulations),
		LastUpdate:           resp.LastUpdate.UTC().Format(time.RFC3339Nano),
	}}, nil
}

// toStatus maps use-case errors onto gRPC status codes. Unclassified errors
// are logged and reported without detail.
func (h *SimulationHandler) toStatus(ctx context.Context, method string, err error) error {
	var (
		verr *dto.ValidationError
		viol *model.BusinessRuleViolation
	)
	switch {
	case errors.As(err, &verr):
		return status.Error(codes.InvalidArgument, verr.Error())
	case errors.As(err, &viol):
		return status.Error(codes.FailedPrecondition, viol.Error())
	case errors.Is(err, port.ErrBatchNotFound):
		return status.Error(codes.NotFound, "batch not found")
	default:
		h.logger.ErrorContext(ctx, "grpc request failed", "method", method, "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

// toSimulationRequest parses wire strings. Empty strings and a zero term are
// left unset so structural validation reports them as missing.
func toSimulationRequest(req *SimulateRequest, prefix string) (dto.SimulationRequest, error) {
	out := dto.SimulationRequest{IncludeSchedule: req.IncludeSchedule}
	fields := make(map[string]string)

	if req.LoanAmount != "" {
		amount, err := fixedpoint.NewFromString(req.LoanAmount)
		if err != nil {
			fields[prefix+"loanAmount"] = "invalid decimal amount"
		} else {
			out.LoanAmount = &amount
		}
	}
	if req.BirthDate != "" {
		d, err := dto.ParseDate(req.BirthDate)
		if err != nil {
			fields[prefix+"birthDate"] = err.Error()
		} else {
			out.BirthDate = &d
		}
	}
	if req.LoanTermMonths != 0 {
		term := int(req.LoanTermMonths)
		out.LoanTermMonths = &term
	}

	if len(fields) > 0 {
		return dto.SimulationRequest{}, &dto.ValidationError{Fields: fields}
	}
	return out, nil
}

func toSimulationMsg(r dto.SimulationResponse) *SimulationMsg {
	msg := &SimulationMsg{
		LoanAmount:         r.LoanAmount.String(),
		BirthDate:          r.BirthDate.String(),
		LoanTermMonths:     int32(r.LoanTermMonths),
		ClientAge:          int32(r.ClientAge),
		AnnualInterestRate: r.AnnualInterestRate.String(),
		MonthlyPayment:     r.MonthlyPayment.String(),
		TotalAmount:        r.TotalAmount.String(),
		TotalInterest:      r.TotalInterest.String(),
	}
	for _, e := range r.Schedule {
		msg.Schedule = append(msg.Schedule, &AmortizationEntryMsg{
			Period:           int32(e.Period),
			DueDate:          e.DueDate.String(),
			Principal:        e.Principal.String(),
			Interest:         e.Interest.String(),
			Total:            e.Total.String(),
			RemainingBalance: e.RemainingBalance.String(),
		})
	}
	return msg
}

func indexPrefix(i int) string {
	return "simulations[" + strconv.Itoa(i) + "]."
}
