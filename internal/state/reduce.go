package state

// Reduce applies a to s and returns the next state. It never mutates s and
// accepts every input; unknown actions return s unchanged.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case OpenCreateForm:
		s.UI.FormMode = FormCreate
		s.UI.SelectedTodo = nil
	case OpenUpdateForm:
		todo := act.Todo
		s.UI.SelectedTodo = &todo
		s.UI.TitleDraft = todo.TitleText()
		s.UI.ContentDraft = todo.ContentText()
		s.UI.FormMode = FormUpdate
	case SetTitleDraft:
		s.UI.TitleDraft = act.Text
	case SetContentDraft:
		s.UI.ContentDraft = act.Text
	case ResetDrafts:
		s.UI.TitleDraft = ""
		s.UI.ContentDraft = ""
	case Cancel:
		s.UI = UIState{}
	case SetLoading:
		s.Session.Loading = act.Loading
	case SetUser:
		if act.User == nil {
			s.Session.User = nil
		} else {
			u := *act.User
			s.Session.User = &u
		}
		s.Session.Authenticated = act.User != nil
	case LoginSuccess:
		u := act.User
		s.Session.User = &u
		s.Session.Authenticated = true
		s.Session.Loading = false
	case Logout:
		s.Session.User = nil
		s.Session.Authenticated = false
		s.Session.Loading = false
	}
	return s
}
