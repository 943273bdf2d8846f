package dispatch

import (
	"fmt"
	"strings"

	"github.com/tbxark/leadflow/types"
)

// BookingMessage renders the block the business receives when a strategy call is booked.
func BookingMessage(form types.LeadForm, slot types.Slot, insights types.InsightList) string {
	return fmt.Sprintf(`STRATEGY CALL BOOKED:
-------------------------
Preferred Time: %s
Business Name: %s
Strategic Goals: %s
AI Insights Generated: %s`,
		slot, form.BusinessName, form.Goals, strings.Join(insights, " | "))
}

// BookingPayload builds the wizard's dispatch payload.
func BookingPayload(form types.LeadForm, slot types.Slot, insights types.InsightList) Payload {
	return Payload{
		FromName:  form.BusinessName,
		FromEmail: form.Email,
		Message:   BookingMessage(form, slot, insights),
	}
}

// ContactPayload builds the contact page's dispatch payload.
func ContactPayload(form types.ContactForm) Payload {
	return Payload{
		FromName:  form.Name,
		FromEmail: form.Email,
		Message:   form.Message,
	}
}
