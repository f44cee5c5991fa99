package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    ShiftStatus
		to      ShiftStatus
		allowed bool
	}{
		{"open to assigned", ShiftStatusOpen, ShiftStatusAssigned, true},
		{"open to cancelled", ShiftStatusOpen, ShiftStatusCancelled, true},
		{"open to completed", ShiftStatusOpen, ShiftStatusCompleted, false},
		{"assigned to in_progress", ShiftStatusAssigned, ShiftStatusInProgress, true},
		{"assigned back to open", ShiftStatusAssigned, ShiftStatusOpen, true},
		{"assigned to completed", ShiftStatusAssigned, ShiftStatusCompleted, false},
		{"in_progress to completed", ShiftStatusInProgress, ShiftStatusCompleted, true},
		{"in_progress to open", ShiftStatusInProgress, ShiftStatusOpen, false},
		{"completed is terminal", ShiftStatusCompleted, ShiftStatusCancelled, false},
		{"cancelled is terminal", ShiftStatusCancelled, ShiftStatusOpen, false},
		{"no self transition", ShiftStatusOpen, ShiftStatusOpen, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestShift_Transition(t *testing.T) {
	s := Shift{Status: ShiftStatusOpen}

	require.NoError(t, s.Transition(ShiftStatusAssigned))
	assert.Equal(t, ShiftStatusAssigned, s.Status)

	err := s.Transition(ShiftStatusCompleted)
	require.Error(t, err)

	var invalidErr *InvalidTransitionError
	require.True(t, errors.As(err, &invalidErr))
	assert.Equal(t, ShiftStatusAssigned, invalidErr.From)
	assert.Equal(t, ShiftStatusCompleted, invalidErr.To)
	// Failed transition leaves the status untouched.
	assert.Equal(t, ShiftStatusAssigned, s.Status)
}

func TestShift_EffectiveStatus(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	t.Run("assigned before start stays assigned", func(t *testing.T) {
		s := Shift{Status: ShiftStatusAssigned, StartTime: start}
		assert.Equal(t, ShiftStatusAssigned, s.EffectiveStatus(start.Add(-time.Minute)))
	})

	t.Run("assigned at start reads in_progress", func(t *testing.T) {
		s := Shift{Status: ShiftStatusAssigned, StartTime: start}
		assert.Equal(t, ShiftStatusInProgress, s.EffectiveStatus(start))
	})

	t.Run("assigned past start reads in_progress", func(t *testing.T) {
		s := Shift{Status: ShiftStatusAssigned, StartTime: start}
		assert.Equal(t, ShiftStatusInProgress, s.EffectiveStatus(start.Add(3*time.Hour)))
	})

	t.Run("open shift never advances", func(t *testing.T) {
		s := Shift{Status: ShiftStatusOpen, StartTime: start}
		assert.Equal(t, ShiftStatusOpen, s.EffectiveStatus(start.Add(3*time.Hour)))
	})

	t.Run("cancelled shift never advances", func(t *testing.T) {
		s := Shift{Status: ShiftStatusCancelled, StartTime: start}
		assert.Equal(t, ShiftStatusCancelled, s.EffectiveStatus(start.Add(3*time.Hour)))
	})
}

func TestShiftAssignment_IsActive(t *testing.T) {
	assert.True(t, (&ShiftAssignment{Status: AssignmentStatusAssigned}).IsActive())
	assert.True(t, (&ShiftAssignment{Status: AssignmentStatusAccepted}).IsActive())
	assert.True(t, (&ShiftAssignment{Status: AssignmentStatusCompleted}).IsActive())
	assert.False(t, (&ShiftAssignment{Status: AssignmentStatusRejected}).IsActive())
}
