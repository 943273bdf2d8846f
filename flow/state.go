package flow

import (
	"fmt"
	"strings"

	"github.com/tbxark/leadflow/patch"
	"github.com/tbxark/leadflow/types"
)

var (
	leadPointers    = patch.AllowedPointers[types.LeadForm]()
	contactPointers = patch.AllowedPointers[types.ContactForm]()
)

// Ticket tags an external call with the session that issued it.
type Ticket struct {
	Session    string `json:"session"`
	Generation uint64 `json:"generation"`
}

// WizardState is the complete, copyable state of one booking wizard session.
// Its methods are pure: they return the next state and never mutate the receiver.
type WizardState struct {
	Session    string            `json:"session"`
	Generation uint64            `json:"generation"`
	Open       bool              `json:"open"`
	Step       types.Step        `json:"step"`
	Form       types.LeadForm    `json:"form"`
	Insights   types.InsightList `json:"insights,omitempty"`
	Slot       types.Slot        `json:"slot,omitempty"`
	Loading    bool              `json:"loading"`
	Err        error             `json:"-"`
}

// NewWizardState returns the empty Collecting state of a session.
func NewWizardState(session string, generation uint64, open bool) WizardState {
	return WizardState{
		Session:    session,
		Generation: generation,
		Open:       open,
		Step:       types.StepCollecting,
	}
}

func (s WizardState) Ticket() Ticket {
	return Ticket{Session: s.Session, Generation: s.Generation}
}

// ErrorMessage is the user-visible failure notice, or "".
func (s WizardState) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

func (s WizardState) clone() WizardState {
	s.Insights = s.Insights.Clone()
	return s
}

func (s WizardState) owns(t Ticket) bool {
	return s.Session == t.Session && s.Generation == t.Generation
}

// Prefill applies the non-empty fields of initial to the form.
func (s WizardState) Prefill(initial types.LeadForm) (WizardState, error) {
	ops, err := patch.GeneratePatchesFromInitial(s.Form, initial)
	if err != nil {
		return s, fmt.Errorf("prefill: %w", err)
	}
	form, err := patch.ApplyRFC6902(s.Form, ops, leadPointers)
	if err != nil {
		return s, fmt.Errorf("prefill: %w", err)
	}
	s.Form = form
	return s, nil
}

// SetField applies one input change event. Only Collecting accepts edits.
func (s WizardState) SetField(pointer, value string) (WizardState, error) {
	if !s.Open {
		return s, ErrClosed
	}
	if s.Loading {
		return s, ErrBusy
	}
	if s.Step != types.StepCollecting {
		return s, fmt.Errorf("edit %s in %s: %w", pointer, s.Step, ErrWrongStep)
	}
	form, err := patch.SetField(s.Form, pointer, value, leadPointers)
	if err != nil {
		return s, fmt.Errorf("edit %s: %w", pointer, err)
	}
	s.Form = form
	return s, nil
}

// BeginInsights leaves Collecting: it marks the insight call as in flight.
func (s WizardState) BeginInsights() (WizardState, error) {
	if !s.Open {
		return s, ErrClosed
	}
	if s.Loading {
		return s, ErrBusy
	}
	if s.Step != types.StepCollecting {
		return s, fmt.Errorf("generate insights in %s: %w", s.Step, ErrWrongStep)
	}
	if missing := types.MissingLeadFields(s.Form); len(missing) > 0 {
		return s, fmt.Errorf("%w: %s", ErrMissingFields, pointers(missing))
	}
	s.Loading = true
	s.Err = nil
	return s, nil
}

// CompleteInsights stores the insight list and enters Previewing.
// An empty list keeps the session in Collecting with ErrNoInsights set.
func (s WizardState) CompleteInsights(t Ticket, insights types.InsightList) (WizardState, error) {
	if !s.owns(t) || s.Step != types.StepCollecting || !s.Loading {
		return s, ErrStale
	}
	s.Loading = false
	if len(insights) == 0 {
		s.Err = ErrNoInsights
		return s, nil
	}
	s.Insights = insights.Clone()
	s.Step = types.StepPreviewing
	return s, nil
}

// BeginDispatch records the chosen slot and marks the email call as in flight.
func (s WizardState) BeginDispatch(slot types.Slot, offered []types.Slot) (WizardState, error) {
	if !s.Open {
		return s, ErrClosed
	}
	if s.Loading {
		return s, ErrBusy
	}
	if s.Step != types.StepPreviewing {
		return s, fmt.Errorf("select slot in %s: %w", s.Step, ErrWrongStep)
	}
	if len(s.Insights) == 0 {
		return s, ErrNoInsights
	}
	if !types.ContainsSlot(offered, slot) {
		return s, fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	s.Slot = slot
	s.Loading = true
	s.Err = nil
	return s, nil
}

// CompleteDispatch enters Confirmed on success, or stays in Previewing with the error.
func (s WizardState) CompleteDispatch(t Ticket, sendErr error) (WizardState, error) {
	if !s.owns(t) || s.Step != types.StepPreviewing || !s.Loading {
		return s, ErrStale
	}
	s.Loading = false
	if sendErr != nil {
		s.Err = sendErr
		return s, nil
	}
	s.Step = types.StepConfirmed
	return s, nil
}

// ContactState is the complete, copyable state of one contact form session.
type ContactState struct {
	Session    string            `json:"session"`
	Generation uint64            `json:"generation"`
	Step       types.ContactStep `json:"step"`
	Form       types.ContactForm `json:"form"`
	Loading    bool              `json:"loading"`
	Err        error             `json:"-"`
}

func NewContactState(session string, generation uint64) ContactState {
	return ContactState{
		Session:    session,
		Generation: generation,
		Step:       types.ContactEditing,
	}
}

func (s ContactState) Ticket() Ticket {
	return Ticket{Session: s.Session, Generation: s.Generation}
}

func (s ContactState) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

func (s ContactState) owns(t Ticket) bool {
	return s.Session == t.Session && s.Generation == t.Generation
}

func (s ContactState) SetField(pointer, value string) (ContactState, error) {
	if s.Loading {
		return s, ErrBusy
	}
	if s.Step != types.ContactEditing {
		return s, fmt.Errorf("edit %s in %s: %w", pointer, s.Step, ErrWrongStep)
	}
	form, err := patch.SetField(s.Form, pointer, value, contactPointers)
	if err != nil {
		return s, fmt.Errorf("edit %s: %w", pointer, err)
	}
	s.Form = form
	return s, nil
}

// BeginSend leaves Editing for Sending.
func (s ContactState) BeginSend() (ContactState, error) {
	if s.Loading {
		return s, ErrBusy
	}
	if s.Step != types.ContactEditing {
		return s, fmt.Errorf("send in %s: %w", s.Step, ErrWrongStep)
	}
	if missing := types.MissingContactFields(s.Form); len(missing) > 0 {
		return s, fmt.Errorf("%w: %s", ErrMissingFields, pointers(missing))
	}
	s.Step = types.ContactSending
	s.Loading = true
	s.Err = nil
	return s, nil
}

// CompleteSend enters Sent on success. On failure it returns to Editing with the form intact.
func (s ContactState) CompleteSend(t Ticket, sendErr error) (ContactState, error) {
	if !s.owns(t) || s.Step != types.ContactSending {
		return s, ErrStale
	}
	s.Loading = false
	if sendErr != nil {
		s.Step = types.ContactEditing
		s.Err = sendErr
		return s, nil
	}
	s.Step = types.ContactSent
	return s, nil
}

func pointers(fields []types.FieldInfo) string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.JSONPointer)
	}
	return strings.Join(out, ", ")
}
