package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunStatusCanTransition(t *testing.T) {
	tests := []struct {
		name   string
		from   RunStatus
		to     RunStatus
		expect bool
	}{
		{"draft to trial", RunStatusDraft, RunStatusTrial, true},
		{"draft to final skips trial", RunStatusDraft, RunStatusFinal, false},
		{"draft to draft", RunStatusDraft, RunStatusDraft, false},
		{"trial to final", RunStatusTrial, RunStatusFinal, true},
		{"trial back to draft", RunStatusTrial, RunStatusDraft, true},
		{"trial to trial", RunStatusTrial, RunStatusTrial, false},
		{"final is terminal", RunStatusFinal, RunStatusDraft, false},
		{"final cannot re-finalize", RunStatusFinal, RunStatusFinal, false},
		{"unknown status has no edges", RunStatus("void"), RunStatusTrial, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.from.CanTransition(tt.to))
		})
	}
}
