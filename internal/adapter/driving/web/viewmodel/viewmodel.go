// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// PageViewModel holds everything the study assistant page renders.
type PageViewModel struct {
	Title       string
	Intro       string
	Highlights  []Highlight
	Tabs        []TabViewModel
	Panels      []PanelViewModel
	Footer      string
	CSRFToken   string
	ActivePanel string
}

// Highlight is one bullet of the page introduction.
type Highlight struct {
	Label string
	Text  string
}

// TabViewModel is one entry in the tab bar.
type TabViewModel struct {
	Label  string
	Href   string
	Active bool
}

// PanelViewModel holds presentation-ready data for one input/output panel.
type PanelViewModel struct {
	ID          string
	Header      string
	Description string
	InputLabel  string
	Placeholder string
	MultiLine   bool
	Button      string
	BusyText    string // may contain %s, replaced client-side with the input
	Action      string // POST target for the form
	Input       string
	Active      bool

	State       string
	Warning     string
	Error       string
	ResultTitle string
	ResultHTML  string // sanitized HTML rendered from the response markdown
	ResultRaw   string // response text exactly as returned
}

// HasOutput reports whether the panel's output region has anything to show.
func (p PanelViewModel) HasOutput() bool {
	return p.Warning != "" || p.Error != "" || p.ResultRaw != ""
}

// ErrorPageViewModel holds the configuration error shown when no call path exists.
type ErrorPageViewModel struct {
	Title   string
	Message string
	Footer  string
}
