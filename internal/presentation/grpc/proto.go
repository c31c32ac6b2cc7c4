package grpc

// proto.go defines the gRPC surface of credit.simulator.v1.SimulationService.
// Messages travel through the JSON codec, so plain structs with snake_case
// tags stand in for generated types.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const serviceName = "credit.simulator.v1.SimulationService"

// SimulationServiceServer is the server API for SimulationService.
type SimulationServiceServer interface {
	Simulate(context.Context, *SimulateRequest) (*SimulateResponse, error)
	SimulateBatch(context.Context, *SimulateBatchRequest) (*SimulateBatchResponse, error)
	GetBatchStatus(context.Context, *GetBatchStatusRequest) (*GetBatchStatusResponse, error)
	mustEmbedUnimplementedSimulationServiceServer()
}

// UnimplementedSimulationServiceServer provides forward-compatible defaults.
type UnimplementedSimulationServiceServer struct{}

func (UnimplementedSimulationServiceServer) Simulate(context.Context, *SimulateRequest) (*SimulateResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Simulate not implemented")
}
func (UnimplementedSimulationServiceServer) SimulateBatch(context.Context, *SimulateBatchRequest) (*SimulateBatchResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SimulateBatch not implemented")
}
func (UnimplementedSimulationServiceServer) GetBatchStatus(context.Context, *GetBatchStatusRequest) (*GetBatchStatusResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetBatchStatus not implemented")
}
func (UnimplementedSimulationServiceServer) mustEmbedUnimplementedSimulationServiceServer() {}

// RegisterSimulationServiceServer registers srv with s.
func RegisterSimulationServiceServer(s grpclib.ServiceRegistrar, srv SimulationServiceServer) {
	s.RegisterService(&simulationServiceDesc, srv)
}

var simulationServiceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*SimulationServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "Simulate", Handler: simulateHandler},
		{MethodName: "SimulateBatch", Handler: simulateBatchHandler},
		{MethodName: "GetBatchStatus", Handler: getBatchStatusHandler},
	},
	Streams: []grpclib.StreamDesc{},
}

// unary adapts a typed method to the grpc.MethodDesc handler signature.
func unary[Req any, Resp any](
	method string,
	call func(SimulationServiceServer, context.Context, *Req) (*Resp, error),
) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SimulationServiceServer), ctx, in)
		}
		info := &grpclib.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + serviceName + "/" + method,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(SimulationServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var (
	simulateHandler = unary("Simulate",
		func(s SimulationServiceServer, ctx context.Context, in *SimulateRequest) (*SimulateResponse, error) {
			return s.Simulate(ctx, in)
		})
	simulateBatchHandler = unary("SimulateBatch",
		func(s SimulationServiceServer, ctx context.Context, in *SimulateBatchRequest) (*SimulateBatchResponse, error) {
			return s.SimulateBatch(ctx, in)
		})
	getBatchStatusHandler = unary("GetBatchStatus",
		func(s SimulationServiceServer, ctx context.Context, in *GetBatchStatusRequest) (*GetBatchStatusResponse, error) {
			return s.GetBatchStatus(ctx, in)
		})
)

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

// SimulateRequest represents the proto SimulateRequest message. Amounts are
// decimal strings, dates are yyyy-MM-dd.
type SimulateRequest struct {
	LoanAmount      string `json:"loan_amount"`
	BirthDate       string `json:"birth_date"`
	LoanTermMonths  int32  `json:"loan_term_months"`
	IncludeSchedule bool   `json:"include_schedule,omitempty"`
}

// SimulateResponse represents the proto SimulateResponse message.
type SimulateResponse struct {
	Simulation *SimulationMsg `json:"simulation"`
}

// SimulateBatchRequest represents the proto SimulateBatchRequest message.
type SimulateBatchRequest struct {
	BatchID     string             `json:"batch_id,omitempty"`
	Simulations []*SimulateRequest `json:"simulations"`
}

// SimulateBatchResponse carries either results or an acceptance.
type SimulateBatchResponse struct {
	BatchID     string           `json:"batch_id"`
	Simulations []*SimulationMsg `json:"simulations,omitempty"`
	Accepted    *AcceptanceMsg   `json:"accepted,omitempty"`
}

// GetBatchStatusRequest represents the proto GetBatchStatusRequest message.
type GetBatchStatusRequest struct {
	BatchID string `json:"batch_id"`
}

// GetBatchStatusResponse represents the proto GetBatchStatusResponse message.
type GetBatchStatusResponse struct {
	Status *BatchStatusMsg `json:"status"`
}

// SimulationMsg represents the proto Simulation message.
type SimulationMsg struct {
	LoanAmount         string                  `json:"loan_amount"`
	BirthDate          string                  `json:"birth_date"`
	LoanTermMonths     int32                   `json:"loan_term_months"`
	ClientAge          int32                   `json:"client_age"`
	AnnualInterestRate string                  `json:"annual_interest_rate"`
	MonthlyPayment     string                  `json:"monthly_payment"`
	TotalAmount        string                  `json:"total_amount"`
	TotalInterest      string                  `json:"total_interest"`
	Schedule           []*AmortizationEntryMsg `json:"schedule,omitempty"`
}

// AmortizationEntryMsg represents the proto AmortizationEntry message.
type AmortizationEntryMsg struct {
	Period           int32  `json:"period"`
	DueDate          string `json:"due_date"`
	Principal        string `json:"principal"`
	Interest         string `json:"interest"`
	Total            string `json:"total"`
	RemainingBalance string `json:"remaining_balance"`
}

// AcceptanceMsg represents the proto BatchAcceptance message.
type AcceptanceMsg struct {
	BatchID          string `json:"batch_id"`
	Status           string `json:"status"`
	Message          string `json:"message"`
	TotalSimulations int32  `json:"total_simulations"`
	AcceptedAt       string `json:"accepted_at"`
}

// BatchStatusMsg represents the proto BatchStatus message.
type BatchStatusMsg struct {
	BatchID              string `json:"batch_id"`
	Status               string `json:"status"`
	Message              string `json:"message"`
	Progress             int32  `json:"progress"`
	TotalSimulations     int32  `json:"total_simulations"`
	ProcessedSimulations int32  `json:"processed_simulations"`
	LastUpdate           string `json:"last_update"`
}
