package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/gqltodo/internal/todos"
)

// harness drives the model programmatically, running commands inline.
type harness struct {
	model *Model
	quit  bool

	mu      sync.Mutex
	pending []tea.Msg
}

func newHarness(m *Model) *harness {
	h := &harness{model: m}
	m.deps.Todos.OnRefetch(func(l todos.Listing, err error) {
		h.mu.Lock()
		h.pending = append(h.pending, listingMsg{listing: l, err: err})
		h.mu.Unlock()
	})
	h.processCmd(m.Init())
	return h
}

func (h *harness) send(msg tea.Msg) {
	mdl, cmd := h.model.Update(msg)
	h.model = mdl.(*Model)
	h.processCmd(cmd)
	h.drain()
}

func (h *harness) processCmd(cmd tea.Cmd) {
	for i := 0; cmd != nil && i < 32; i++ {
		msg := cmd()
		switch msg := msg.(type) {
		case nil:
			return
		case tea.QuitMsg:
			h.quit = true
			return
		case tea.BatchMsg:
			for _, c := range msg {
				h.processCmd(c)
			}
			return
		}
		mdl, next := h.model.Update(msg)
		h.model = mdl.(*Model)
		cmd = next
	}
}

func (h *harness) drain() {
	for {
		h.mu.Lock()
		if len(h.pending) == 0 {
			h.mu.Unlock()
			return
		}
		msg := h.pending[0]
		h.pending = h.pending[1:]
		h.mu.Unlock()
		mdl, cmd := h.model.Update(msg)
		h.model = mdl.(*Model)
		h.processCmd(cmd)
	}
}

func (h *harness) typeText(s string) {
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) press(k tea.KeyType) {
	h.send(tea.KeyMsg{Type: k})
}

func (h *harness) view() string { return h.model.View() }
