package model

import (
	"fmt"
	"strings"
)

// PanelID identifies one of the fixed study panels.
type PanelID string

const (
	PanelDebugger PanelID = "debugger"
	PanelTopic    PanelID = "topic"
	PanelConcept  PanelID = "concept"
)

// InputKind selects the form control a panel renders for its single field.
type InputKind string

const (
	InputMultiLine  InputKind = "multiline"
	InputSingleLine InputKind = "singleline"
)

// Panel is the static definition of one input/output unit: its presentation
// copy and the template that turns user input into a prompt.
//
// Copy fields that contain %s are formatted with the user input.
type Panel struct {
	ID          PanelID
	Tab         string
	Header      string
	Description string
	InputLabel  string
	Placeholder string
	Input       InputKind
	Button      string
	BusyText    string
	ResultTitle string
	EmptyInput  string
	ErrorPrefix string

	template func(input string) string
}

// Prompt embeds input verbatim into the panel's instruction template.
// No escaping is applied.
func (p Panel) Prompt(input string) string {
	return p.template(input)
}

// ResultTitleFor returns the heading shown above a successful result.
func (p Panel) ResultTitleFor(input string) string {
	return withInput(p.ResultTitle, input)
}

// ErrorMessage formats a failed call the way the panel displays it inline.
func (p Panel) ErrorMessage(err error) string {
	return fmt.Sprintf("%s: %v", p.ErrorPrefix, err)
}

func withInput(format, input string) string {
	if !strings.Contains(format, "%s") {
		return format
	}
	return fmt.Sprintf(format, input)
}

var panels = []Panel{
	{
		ID:          PanelDebugger,
		Tab:         "🐛 Code Debugger",
		Header:      "Code Debugger",
		Description: "Paste your code below and let Gemini help you debug it.",
		InputLabel:  "Enter your code here:",
		Placeholder: "def calculate_average(numbers):\n    total = 0\n    for num in numbers:\n        total += num\n    return total / len(numbers)\n\ndata = [1, 2, 3, 4, 5]\nprint(calculate_average(data))",
		Input:       InputMultiLine,
		Button:      "Debug Code",
		BusyText:    "Debugging your code...",
		ResultTitle: "Debugging Report:",
		EmptyInput:  "Please enter some code to debug.",
		ErrorPrefix: "An error occurred while debugging",
		template: func(input string) string {
			return "Debug the following code. Explain any errors, suggest fixes, and provide a corrected version if necessary:\n\n```\n" + input + "\n```"
		},
	},
	{
		ID:          PanelTopic,
		Tab:         "💡 Topic Explainer",
		Header:      "Topic Explainer",
		Description: "Enter any complex topic you want to understand better.",
		InputLabel:  "Enter the topic:",
		Placeholder: "Quantum Entanglement",
		Input:       InputSingleLine,
		Button:      "Explain Topic",
		BusyText:    "Explaining '%s'...",
		ResultTitle: "Explanation for '%s':",
		EmptyInput:  "Please enter a topic to explain.",
		ErrorPrefix: "An error occurred while explaining the topic",
		template: func(input string) string {
			return "Explain the following topic in simple terms, using analogies and a clear, relatable example:\n\nTopic: " + input
		},
	},
	{
		ID:          PanelConcept,
		Tab:         "📊 Data Analysis Concepts",
		Header:      "Data Analysis Concepts",
		Description: "Get clear explanations for various data analysis concepts.",
		InputLabel:  "Enter a data analysis concept:",
		Placeholder: "P-value in Hypothesis Testing",
		Input:       InputSingleLine,
		Button:      "Explain Concept",
		BusyText:    "Explaining '%s'...",
		ResultTitle: "Explanation for '%s':",
		EmptyInput:  "Please enter a data analysis concept.",
		ErrorPrefix: "An error occurred while explaining the concept",
		template: func(input string) string {
			return "Explain the data analysis concept '" + input + "' in detail, including its purpose, how it's used, and a simple example if applicable."
		},
	},
}

// Panels returns the panel definitions in display order.
func Panels() []Panel {
	out := make([]Panel, len(panels))
	copy(out, panels)
	return out
}

// LookupPanel returns the panel with the given ID.
func LookupPanel(id PanelID) (Panel, bool) {
	for _, p := range panels {
		if p.ID == id {
			return p, true
		}
	}
	return Panel{}, false
}
