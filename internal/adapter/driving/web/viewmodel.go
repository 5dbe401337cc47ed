package web

import (
	"net/url"

	vm "github.com/ericfisherdev/studyassistant/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/studyassistant/internal/domain/model"
)

const (
	pageTitle  = "Gemini AI Study Assistant"
	pageFooter = "Powered by Google Gemini LLM"
	pageIntro  = "This application leverages Google's Gemini LLM to help students with:"
)

var pageHighlights = []vm.Highlight{
	{Label: "Debugging Code", Text: "Get explanations for errors and suggestions for fixes."},
	{Label: "Explaining Complex Topics", Text: "Understand difficult concepts with simple examples."},
	{Label: "Explaining Data Analysis Concepts", Text: "Grasp the nuances of various data analysis techniques."},
}

// toPageViewModel builds the page with active as the visible panel. outcome,
// when non-nil, fills the output region of its panel; every other panel
// renders idle.
func toPageViewModel(active model.PanelID, outcome *model.Outcome, csrfToken string) vm.PageViewModel {
	panels := model.Panels()
	if _, ok := model.LookupPanel(active); !ok {
		active = panels[0].ID
	}

	page := vm.PageViewModel{
		Title:       pageTitle,
		Intro:       pageIntro,
		Highlights:  pageHighlights,
		Footer:      pageFooter,
		CSRFToken:   csrfToken,
		ActivePanel: string(active),
		Tabs:        make([]vm.TabViewModel, 0, len(panels)),
		Panels:      make([]vm.PanelViewModel, 0, len(panels)),
	}

	for _, p := range panels {
		page.Tabs = append(page.Tabs, vm.TabViewModel{
			Label:  p.Tab,
			Href:   "/?panel=" + url.QueryEscape(string(p.ID)),
			Active: p.ID == active,
		})

		pvm := toPanelViewModel(p)
		pvm.Active = p.ID == active
		if outcome != nil && outcome.Panel == p.ID {
			applyOutcome(&pvm, p, *outcome)
		}
		page.Panels = append(page.Panels, pvm)
	}

	return page
}

func toPanelViewModel(p model.Panel) vm.PanelViewModel {
	return vm.PanelViewModel{
		ID:          string(p.ID),
		Header:      p.Header,
		Description: p.Description,
		InputLabel:  p.InputLabel,
		Placeholder: p.Placeholder,
		MultiLine:   p.Input == model.InputMultiLine,
		Button:      p.Button,
		BusyText:    p.BusyText,
		Action:      "/panels/" + string(p.ID),
		State:       string(model.StateIdle),
	}
}

func applyOutcome(pvm *vm.PanelViewModel, p model.Panel, outcome model.Outcome) {
	pvm.Input = outcome.Input
	pvm.State = string(outcome.State)
	pvm.Warning = outcome.Warning
	pvm.Error = outcome.Error

	if outcome.State == model.StateResult {
		pvm.ResultTitle = p.ResultTitleFor(outcome.Input)
		pvm.ResultHTML = RenderMarkdown(outcome.Text)
		pvm.ResultRaw = outcome.Text
	}
}
