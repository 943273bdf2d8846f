package types

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

// FormatMissingFields renders missing fields as a markdown table, or "" when nothing is missing.
func FormatMissingFields(fields []FieldInfo) string {
	if len(fields) == 0 {
		return ""
	}
	var buf strings.Builder
	buf.WriteString("# Missing required fields:\n")
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Field", "Pointer", "Hint")
	for _, field := range fields {
		_ = table.Append(field.DisplayName, field.JSONPointer, field.Description)
	}
	_ = table.Render()
	return buf.String()
}

// FormatInsights renders the numbered insight list as a markdown table.
func FormatInsights(insights InsightList) string {
	if len(insights) == 0 {
		return ""
	}
	var buf strings.Builder
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("#", "Strategic Move")
	for i, insight := range insights {
		_ = table.Append(fmt.Sprintf("%d", i+1), insight)
	}
	_ = table.Render()
	return buf.String()
}

// FormatSlots renders the selectable slots as a markdown table.
func FormatSlots(slots []Slot) string {
	var buf strings.Builder
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("#", "Time")
	for i, slot := range slots {
		_ = table.Append(fmt.Sprintf("%d", i+1), string(slot))
	}
	_ = table.Render()
	return buf.String()
}
