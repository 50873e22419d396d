package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nickpending/donations/internal/api"
	"github.com/nickpending/donations/internal/config"
	"github.com/nickpending/donations/internal/query"
	"github.com/nickpending/donations/internal/service"
	"github.com/nickpending/donations/internal/ui/operations"
)

const basePath = "/api/v1/donationItems"

// fakeService is an in-memory donation items service
type fakeService struct {
	mu        sync.Mutex
	items     []api.DonationItem
	seed      []api.DonationItem
	hits      map[string]int
	failPaths map[string]int
}

func newFakeService(items ...api.DonationItem) *fakeService {
	return &fakeService{
		items:     append([]api.DonationItem(nil), items...),
		seed:      append([]api.DonationItem(nil), items...),
		hits:      make(map[string]int),
		failPaths: make(map[string]int),
	}
}

func (f *fakeService) fail(path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPaths[path] = status
}

func (f *fakeService) clearFailure(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failPaths, path)
}

func (f *fakeService) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path[len(basePath):]
	f.hits[path]++
	if status, ok := f.failPaths[path]; ok {
		http.Error(w, "boom", status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch path {
	case "/all":
		json.NewEncoder(w).Encode(f.items)
	case "/statuses":
		io.WriteString(w, `[{"id":"active","name":"Active"},{"id":"inactive","name":"Inactive"}]`)
	case "/locations":
		io.WriteString(w, `[{"id":"loc-1","name":"Kenya"},{"id":"loc-2","name":"Gaza"}]`)
	case "/themes":
		io.WriteString(w, `[{"id":"th-1","name":"Water"},{"id":"th-2","name":"Education"}]`)
	case "":
		var req api.CreateDonationItemRequest
		json.NewDecoder(r.Body).Decode(&req)
		item := api.DonationItem{
			ID:       fmt.Sprintf("new-%d", len(f.items)+1),
			Name:     req.Name,
			Status:   api.Status{ID: "active", Name: "Active"},
			Location: &api.Location{ID: req.Location, Name: req.Location},
			Theme:    &api.Theme{ID: req.Theme, Name: req.Theme},
		}
		f.items = append(f.items, item)
		json.NewEncoder(w).Encode(item)
	case "/reset":
		f.items = append([]api.DonationItem(nil), f.seed...)
	default:
		http.NotFound(w, r)
	}
}

// seedItems returns n items alternating between Active and Inactive
func seedItems(n int) []api.DonationItem {
	items := make([]api.DonationItem, 0, n)
	for i := 1; i <= n; i++ {
		status := api.Status{ID: "active", Name: "Active"}
		if i%2 == 0 {
			status = api.Status{ID: "inactive", Name: "Inactive"}
		}
		items = append(items, api.DonationItem{
			ID:       fmt.Sprintf("item-%02d", i),
			Name:     fmt.Sprintf("Item %02d", i),
			Status:   status,
			Price:    &api.Price{Amount: float64(i), CurrencyCode: "GBP", Text: fmt.Sprintf("£%d.00", i)},
			Location: &api.Location{ID: "loc-1", Name: "Kenya"},
			Theme:    &api.Theme{ID: "th-1", Name: "Water"},
		})
	}
	return items
}

// testModel creates a sized Model backed by svc. Nothing is fetched yet.
func testModel(t *testing.T, svc *fakeService) (Model, *service.Store) {
	t.Helper()
	server := httptest.NewServer(svc)
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.API.BaseURL = server.URL + basePath
	cfg.Query.Retry = 0

	store := service.NewStore(api.NewClient(cfg.API.BaseURL), query.Options{})
	m := NewModel(store, cfg)
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, store
}

// loadedModel creates a Model with items and lookups already delivered
func loadedModel(t *testing.T, svc *fakeService) (Model, *service.Store) {
	t.Helper()
	m, store := testModel(t, svc)
	m, _ = update(m, operations.LoadItems(store, 0)())
	m, _ = update(m, operations.LoadStatuses(store, 0)())
	m, _ = update(m, operations.LoadLocations(store, 0)())
	m, _ = update(m, operations.LoadThemes(store, 0)())
	return m, store
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// key builds a KeyMsg from a key name or a single rune
func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		m, _ = update(m, key(k))
	}
	return m
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m, _ = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// awaitMsg runs cmd, expanding batches concurrently, and returns the first
// message of type T. Timer commands keep running in the background.
func awaitMsg[T any](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	var zero T
	if cmd == nil {
		t.Fatalf("Expected a command producing %T, got nil", zero)
	}

	ch := make(chan tea.Msg, 64)
	var run func(c tea.Cmd)
	run = func(c tea.Cmd) {
		if c == nil {
			return
		}
		go func() {
			msg := c()
			if batch, ok := msg.(tea.BatchMsg); ok {
				for _, sub := range batch {
					run(sub)
				}
				return
			}
			select {
			case ch <- msg:
			default:
			}
		}()
	}
	run(cmd)

	deadline := time.After(3 * time.Second)
	for {
		select {
		case msg := <-ch:
			if v, ok := msg.(T); ok {
				return v
			}
		case <-deadline:
			t.Fatalf("Timed out waiting for %T", zero)
			return zero
		}
	}
}
