package types

// Step is the position of a booking wizard session.
type Step string

const (
	StepCollecting Step = "collecting"
	StepPreviewing Step = "previewing"
	StepConfirmed  Step = "confirmed"
)

// ContactStep is the position of a contact form session.
type ContactStep string

const (
	ContactEditing ContactStep = "editing"
	ContactSending ContactStep = "sending"
	ContactSent    ContactStep = "sent"
)

type FieldInfo struct {
	JSONPointer string `json:"json_pointer"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// InsightList is the ordered set of strategic recommendations shown in the preview step.
type InsightList []string

// Clone returns a copy that does not share the backing array.
func (l InsightList) Clone() InsightList {
	if l == nil {
		return nil
	}
	out := make(InsightList, len(l))
	copy(out, l)
	return out
}

// Slot is a human readable call-time label. It is never checked against a calendar.
type Slot string
