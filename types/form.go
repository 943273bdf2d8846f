package types

import "strings"

const (
	PointerBusinessName = "/business_name"
	PointerEmail        = "/email"
	PointerGoals        = "/goals"
	PointerName         = "/name"
	PointerMessage      = "/message"
)

// LeadForm holds the fields captured by the booking wizard.
type LeadForm struct {
	BusinessName string `json:"business_name"`
	Email        string `json:"email"`
	Goals        string `json:"goals"`
}

// ContactForm holds the fields captured by the standalone contact page.
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// MissingLeadFields lists the required lead fields that are still empty.
// A field holding only whitespace counts as empty.
func MissingLeadFields(form LeadForm) []FieldInfo {
	var missing []FieldInfo
	if blank(form.BusinessName) {
		missing = append(missing, FieldInfo{
			JSONPointer: PointerBusinessName,
			DisplayName: "Business Name",
			Description: "e.g. Atlas Fitness",
			Required:    true,
		})
	}
	if blank(form.Email) {
		missing = append(missing, FieldInfo{
			JSONPointer: PointerEmail,
			DisplayName: "Email Address",
			Description: "founder@brand.com",
			Required:    true,
		})
	}
	if blank(form.Goals) {
		missing = append(missing, FieldInfo{
			JSONPointer: PointerGoals,
			DisplayName: "Primary Goal",
			Description: "e.g. Increase monthly leads by 300%",
			Required:    true,
		})
	}
	return missing
}

// MissingContactFields lists the required contact fields that are still empty.
// A field holding only whitespace counts as empty.
func MissingContactFields(form ContactForm) []FieldInfo {
	var missing []FieldInfo
	if blank(form.Name) {
		missing = append(missing, FieldInfo{JSONPointer: PointerName, DisplayName: "Name", Required: true})
	}
	if blank(form.Email) {
		missing = append(missing, FieldInfo{JSONPointer: PointerEmail, DisplayName: "Email", Required: true})
	}
	if blank(form.Message) {
		missing = append(missing, FieldInfo{JSONPointer: PointerMessage, DisplayName: "Message", Required: true})
	}
	return missing
}
