package usecase

import (
	"context"
	"fmt"

	"github.com/bibbank/credit-simulator/internal/application/dto"
	"github.com/bibbank/credit-simulator/internal/domain/port"
)

// GetBatchStatusUseCase retrieves the latest status of a batch.
type GetBatchStatusUseCase struct {
	statuses port.BatchStatusRepository
}

// NewGetBatchStatusUseCase wires dependencies.
func NewGetBatchStatusUseCase(statuses port.BatchStatusRepository) *GetBatchStatusUseCase {
	return &GetBatchStatusUseCase{statuses: statuses}
}

// Execute returns the status for the given batch ID. Unknown IDs yield an
// error wrapping port.ErrBatchNotFound.
func (uc *GetBatchStatusUseCase) Execute(
	ctx context.Context,
	req dto.GetBatchStatusRequest,
) (dto.BatchStatusResponse, error) {
	ctx, span := tracer.Start(ctx, "GetBatchStatusUseCase.Execute")
	defer span.End()

	status, err := uc.statuses.FindByID(ctx, req.BatchID)
	if err != nil {
		return dto.BatchStatusResponse{}, fail(span, fmt.Errorf("find batch status: %w", err))
	}
	return toBatchStatusResponse(status), nil
}
