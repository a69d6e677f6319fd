package model

// Todo is the domain model for a todo entry owned by the backend.
// Title and Content are optional on the server side, hence the pointers.
type Todo struct {
	ID      string  `json:"id"`
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// TitleText returns the title or "" when the server sent null.
func (t Todo) TitleText() string {
	if t.Title == nil {
		return ""
	}
	return *t.Title
}

// ContentText returns the content or "" when the server sent null.
func (t Todo) ContentText() string {
	if t.Content == nil {
		return ""
	}
	return *t.Content
}

// StringPtr is a small helper for building optional fields.
func StringPtr(s string) *string { return &s }
