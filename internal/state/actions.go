package state

import "github.com/idilsaglam/gqltodo/internal/model"

// Action is a tagged transition. Only the types in this file implement it.
type Action interface {
	Name() string
	action()
}

type (
	OpenCreateForm  struct{}
	OpenUpdateForm  struct{ Todo model.Todo }
	SetTitleDraft   struct{ Text string }
	SetContentDraft struct{ Text string }
	ResetDrafts     struct{}
	Cancel          struct{}

	SetLoading   struct{ Loading bool }
	SetUser      struct{ User *model.User }
	LoginSuccess struct{ User model.User }
	Logout       struct{}
)

func (OpenCreateForm) Name() string  { return "open_create_form" }
func (OpenUpdateForm) Name() string  { return "open_update_form" }
func (SetTitleDraft) Name() string   { return "set_title_draft" }
func (SetContentDraft) Name() string { return "set_content_draft" }
func (ResetDrafts) Name() string     { return "reset_drafts" }
func (Cancel) Name() string          { return "cancel" }
func (SetLoading) Name() string      { return "set_loading" }
func (SetUser) Name() string         { return "set_user" }
func (LoginSuccess) Name() string    { return "login_success" }
func (Logout) Name() string          { return "logout" }

func (OpenCreateForm) action()  {}
func (OpenUpdateForm) action()  {}
func (SetTitleDraft) action()   {}
func (SetContentDraft) action() {}
func (ResetDrafts) action()     {}
func (Cancel) action()          {}
func (SetLoading) action()      {}
func (SetUser) action()         {}
func (LoginSuccess) action()    {}
func (Logout) action()          {}
