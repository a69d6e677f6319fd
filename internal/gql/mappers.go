package gql

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/idilsaglam/gqltodo/internal/model"
)

// Wire shapes. Each mapper below turns one of them into domain values.

// wireID accepts both "12" and 12 since servers differ on ID encoding.
type wireID string

func (id *wireID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = wireID(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	*id = wireID(b)
	return nil
}

type wireTodo struct {
	ID      wireID  `json:"id"`
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (w *wireTodo) toModel() *model.Todo {
	if w == nil {
		return nil
	}
	return &model.Todo{ID: string(w.ID), Title: w.Title, Content: w.Content}
}

type wireTodoPayload struct {
	Errors []string  `json:"errors"`
	Todo   *wireTodo `json:"todo"`
}

type wireUser struct {
	ID    wireID `json:"id"`
	Email string `json:"email"`
}

type wireAuthPayload struct {
	User *wireUser `json:"user"`
}

// TodosData is the list part of the Todos query.
type TodosData []model.Todo

// HeaderData is the count part of the Todos query.
type HeaderData struct {
	TodoCount int
}

// QueryData is a mapped query response. Only the fields belonging to the
// operation that produced it are set.
type QueryData struct {
	Raw        json.RawMessage
	TodosData  TodosData
	HeaderData *HeaderData
}

// PayloadData is the body of a todo mutation payload: business errors plus
// the affected todo, if any.
type PayloadData struct {
	Errors []string
	Todo   *model.Todo
}

// Failed reports whether the server rejected the mutation.
func (p *PayloadData) Failed() bool { return p != nil && len(p.Errors) > 0 }

// AuthData is the body of a sign-in or sign-up payload.
type AuthData struct {
	User  *model.User
	Token string
}

// SignOutData is the body of a sign-out payload.
type SignOutData struct {
	Success bool
}

func mapTodos(raw json.RawMessage) (*QueryData, error) {
	var wire struct {
		Todos     []wireTodo `json:"todos"`
		TodoCount *int       `json:"todoCount"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode todos: %w", err)
	}
	todos := make(TodosData, 0, len(wire.Todos))
	for i := range wire.Todos {
		todos = append(todos, *wire.Todos[i].toModel())
	}
	header := &HeaderData{TodoCount: len(todos)}
	if wire.TodoCount != nil {
		header.TodoCount = *wire.TodoCount
	}
	return &QueryData{Raw: raw, TodosData: todos, HeaderData: header}, nil
}

func mapTodoPayload(raw json.RawMessage, field string) (*PayloadData, error) {
	var wire map[string]*wireTodoPayload
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode %s: %w", field, err)
	}
	p, ok := wire[field]
	if !ok || p == nil {
		return nil, fmt.Errorf("decode %s: payload missing", field)
	}
	errs := p.Errors
	if errs == nil {
		errs = []string{}
	}
	return &PayloadData{Errors: errs, Todo: p.Todo.toModel()}, nil
}

func mapAuth(raw json.RawMessage, field string, resp Response) (*AuthData, error) {
	var wire map[string]*wireAuthPayload
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode %s: %w", field, err)
	}
	out := &AuthData{Token: tokenFromHeader(resp)}
	if p := wire[field]; p != nil && p.User != nil {
		out.User = &model.User{ID: string(p.User.ID), Email: p.User.Email}
	}
	return out, nil
}

func mapSignOut(raw json.RawMessage) (*SignOutData, error) {
	var wire struct {
		SignOut *struct {
			Success bool `json:"success"`
		} `json:"signOut"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode signOut: %w", err)
	}
	out := &SignOutData{}
	if wire.SignOut != nil {
		out.Success = wire.SignOut.Success
	}
	return out, nil
}

func tokenFromHeader(resp Response) string {
	if resp.Header == nil {
		return ""
	}
	v := strings.TrimSpace(resp.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(v), "bearer ") {
		v = strings.TrimSpace(v[7:])
	}
	return v
}
