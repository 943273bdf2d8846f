package insight

import (
	"strconv"
	"strings"
)

// DefaultPromptTemplate asks for a bare JSON array. Placeholders: {brand}, {business}, {goals}, {count}.
const DefaultPromptTemplate = `You are a world-class brand strategist for {brand}.
Analyze this business: "{business}" with these goals: "{goals}".
Provide {count} high-impact "Elite Strategic Moves" (concise, professional, and confident).
Format as a JSON array of strings. Do not include any other text.`

// DefaultToolPromptTemplate is used when the answer comes back through a tool call.
const DefaultToolPromptTemplate = `You are a world-class brand strategist for {brand}.
Analyze this business: "{business}" with these goals: "{goals}".
Provide {count} high-impact "Elite Strategic Moves" (concise, professional, and confident).
Call the '{tool}' tool with the moves.`

const (
	DefaultBrand       = "Vector by Volta"
	DefaultCount       = 3
	DefaultTemperature = float32(0.7)
)

type promptData struct {
	brand    string
	business string
	goals    string
	count    int
	tool     string
}

func renderPrompt(tpl string, d promptData) string {
	return strings.NewReplacer(
		"{brand}", d.brand,
		"{business}", d.business,
		"{goals}", d.goals,
		"{count}", strconv.Itoa(d.count),
		"{tool}", d.tool,
	).Replace(tpl)
}

// cleanInsights trims entries and drops blanks.
func cleanInsights(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
