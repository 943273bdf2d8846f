package flow

import (
	"errors"

	"github.com/tbxark/leadflow/patch"
)

var (
	// ErrMissingFields indicates a required field is empty. No external call was made.
	ErrMissingFields = errors.New("required fields are missing")
	// ErrBusy indicates a call issued by the current step is still in flight.
	ErrBusy = errors.New("a request is already in flight")
	// ErrWrongStep indicates the event does not apply to the current step.
	ErrWrongStep = errors.New("event not allowed in the current step")
	// ErrInvalidSlot indicates the slot is not one of the offered labels.
	ErrInvalidSlot = errors.New("slot is not offered")
	// ErrClosed indicates the wizard is not open.
	ErrClosed = errors.New("wizard is closed")
	// ErrStale indicates a result belongs to a superseded session and was discarded.
	ErrStale = errors.New("result belongs to a superseded session")
	// ErrNoInsights indicates an attempt to enter the preview step without insights.
	ErrNoInsights = errors.New("preview requires at least one insight")
	// ErrFieldNotAllowed indicates a field change targets a pointer outside the form.
	ErrFieldNotAllowed = patch.ErrPathNotAllowed
	// ErrInvalidText indicates a field value that is not valid UTF-8.
	ErrInvalidText = patch.ErrInvalidText
)
