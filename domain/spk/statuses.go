package spk

import "spkwork/domain/state"

const (
	StatusDraft     state.State = "draft"
	StatusActive    state.State = "active"
	StatusCompleted state.State = "completed"
	StatusCancelled state.State = "cancelled"
)

// Lifecycle is the fixed status table of a work order. completed and
// cancelled are terminal.
var Lifecycle = state.NewStateMachine(
	[]state.State{StatusDraft, StatusActive, StatusCompleted, StatusCancelled},
	[]state.Transition{
		{Name: "activate", From: StatusDraft, To: StatusActive},
		{Name: "cancel", From: StatusDraft, To: StatusCancelled},
		{Name: "complete", From: StatusActive, To: StatusCompleted},
		{Name: "cancel", From: StatusActive, To: StatusCancelled},
	})
