// Package state holds the transient client state: which todo form is open,
// the drafts typed into it, the selected todo and the auth session.
//
// All transitions go through Reduce, a pure function over an Action. A Store
// wraps the current value and is passed explicitly to whoever needs it.
package state

import "github.com/idilsaglam/gqltodo/internal/model"

// FormMode says which todo form, if any, is showing.
type FormMode int

const (
	FormNone FormMode = iota
	FormCreate
	FormUpdate
)

func (m FormMode) String() string {
	switch m {
	case FormCreate:
		return "create"
	case FormUpdate:
		return "update"
	default:
		return "none"
	}
}

// UIState is the form/selection part of the state.
// FormUpdate implies SelectedTodo != nil; FormCreate implies SelectedTodo == nil.
type UIState struct {
	FormMode     FormMode    `json:"form_mode"`
	TitleDraft   string      `json:"title_draft"`
	ContentDraft string      `json:"content_draft"`
	SelectedTodo *model.Todo `json:"selected_todo"`
}

// State is everything the store owns.
type State struct {
	UI      UIState       `json:"ui"`
	Session model.Session `json:"session"`
}

// Initial returns the empty state used at startup.
func Initial() State { return State{} }

// Valid reports whether the form/selection invariant holds.
func (s State) Valid() bool {
	switch s.UI.FormMode {
	case FormUpdate:
		return s.UI.SelectedTodo != nil
	case FormCreate:
		return s.UI.SelectedTodo == nil
	}
	return true
}
