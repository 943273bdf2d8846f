package types

// DefaultSlots are the call times offered on the preview step.
var DefaultSlots = []Slot{
	"Tomorrow at 10:00 AM",
	"Wednesday at 2:00 PM",
	"Thursday at 9:00 AM",
	"Friday at 4:30 PM",
}

// ContainsSlot reports whether s is one of slots.
func ContainsSlot(slots []Slot, s Slot) bool {
	for _, candidate := range slots {
		if candidate == s {
			return true
		}
	}
	return false
}
