package payroll

import "context"

// PayrollService exposes the four workflow entry points plus the additions
// basket and read operations. Company and acting user come from the request
// context claims.
type PayrollService interface {
	CreateDraftRun(ctx context.Context, req CreateRunRequest) (RunResponse, error)
	RunTrial(ctx context.Context, runID string) (RunResponse, error)
	RevertToDraft(ctx context.Context, runID string) (RunResponse, error)
	FinalizeRun(ctx context.Context, runID string) (RunResponse, error)

	GetRun(ctx context.Context, runID string) (RunResponse, error)
	ListRuns(ctx context.Context, filter RunFilter) (ListRunsResponse, error)

	AddAddition(ctx context.Context, runID string, req AddAdditionRequest) (AdditionResponse, error)
	RemoveAddition(ctx context.Context, runID string, additionID string) error
	ListAdditions(ctx context.Context, runID string) ([]AdditionResponse, error)
}
