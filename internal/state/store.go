package state

import (
	"sync"

	"github.com/idilsaglam/gqltodo/internal/logging/events"
	"github.com/idilsaglam/gqltodo/internal/model"
)

// Listener is called after every dispatch with the resulting state.
type Listener func(State)

type subscription struct {
	id int
	fn Listener
}

// Store owns the current State. Dispatches are serialized; listeners run
// after the new state is in place, outside the lock.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners []subscription
	nextID    int
}

// NewStore creates a store seeded with initial.
func NewStore(initial State) *Store {
	return &Store{state: initial}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch reduces a into the current state and notifies listeners.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	prev := s.state.UI.FormMode
	s.state = Reduce(s.state, a)
	next := s.state
	subs := append([]subscription(nil), s.listeners...)
	s.mu.Unlock()

	events.Store.Dispatch(a.Name(), prev.String(), next.UI.FormMode.String())
	for _, sub := range subs {
		sub.fn(next)
	}
	return next
}

// Subscribe registers fn and returns a func that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) OpenCreateForm()             { s.Dispatch(OpenCreateForm{}) }
func (s *Store) OpenUpdateForm(t model.Todo) { s.Dispatch(OpenUpdateForm{Todo: t}) }
func (s *Store) SetTitleDraft(text string)   { s.Dispatch(SetTitleDraft{Text: text}) }
func (s *Store) SetContentDraft(text string) { s.Dispatch(SetContentDraft{Text: text}) }
func (s *Store) ResetDrafts()                { s.Dispatch(ResetDrafts{}) }
func (s *Store) Cancel()                     { s.Dispatch(Cancel{}) }

func (s *Store) SetLoading(loading bool)   { s.Dispatch(SetLoading{Loading: loading}) }
func (s *Store) SetUser(u *model.User)     { s.Dispatch(SetUser{User: u}) }
func (s *Store) LoginSuccess(u model.User) { s.Dispatch(LoginSuccess{User: u}) }
func (s *Store) Logout()                   { s.Dispatch(Logout{}) }
