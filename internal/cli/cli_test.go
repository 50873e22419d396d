package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nickpending/donations/internal/api"
	"github.com/nickpending/donations/internal/config"
	"github.com/nickpending/donations/internal/form"
	"github.com/nickpending/donations/internal/ui"
)

const basePath = "/api/v1/donationItems"

// fakeAPI serves a fixed donation items service and records POST bodies
type fakeAPI struct {
	mu     sync.Mutex
	items  []api.DonationItem
	posts  []api.CreateDonationItemRequest
	resets int
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch strings.TrimPrefix(r.URL.Path, basePath) {
	case "/all":
		json.NewEncoder(w).Encode(f.items)
	case "/statuses":
		io.WriteString(w, `[{"id":"active","name":"Active"},{"id":"inactive","name":"Inactive"}]`)
	case "/locations":
		io.WriteString(w, `[{"id":"loc-1","name":"Kenya"}]`)
	case "/themes":
		io.WriteString(w, `[{"id":"th-1","name":"Water"},{"id":"th-2","name":"Education"}]`)
	case "":
		var req api.CreateDonationItemRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.posts = append(f.posts, req)
		item := api.DonationItem{ID: "new-1", Name: req.Name, Status: api.Status{ID: "active", Name: "Active"}}
		f.items = append(f.items, item)
		json.NewEncoder(w).Encode(item)
	case "/reset":
		f.resets++
	default:
		http.NotFound(w, r)
	}
}

func newFakeAPI(n int) *fakeAPI {
	f := &fakeAPI{}
	for i := 1; i <= n; i++ {
		status := api.Status{ID: "active", Name: "Active"}
		if i%2 == 0 {
			status = api.Status{ID: "inactive", Name: "Inactive"}
		}
		f.items = append(f.items, api.DonationItem{
			ID:     fmt.Sprintf("item-%02d", i),
			Name:   fmt.Sprintf("Item %02d", i),
			Status: status,
			Price:  &api.Price{Amount: float64(i), CurrencyCode: "GBP", Text: fmt.Sprintf("£%d.00", i)},
		})
	}
	return f
}

// isolate points config and log paths at temp dirs and starts the fake
func isolate(t *testing.T, f *fakeAPI) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv(config.EnvAPIURL, "")
	t.Setenv(config.EnvPageSize, "")
	t.Setenv("DONATIONS_CONFIG", "")

	server := httptest.NewServer(f)
	t.Cleanup(server.Close)
	return server.URL + basePath
}

func runCLI(t *testing.T, app *App, args ...string) (string, string, error) {
	t.Helper()
	if app == nil {
		app = &App{runProgram: func(tea.Model) error { return nil }}
	}
	cmd := newRootCmd(app)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestListJSONPaginates(t *testing.T) {
	f := newFakeAPI(12)
	url := isolate(t, f)

	out, _, err := runCLI(t, nil, "list", "--api-url", url, "--page", "2", "--json")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	var envelope struct {
		Data []api.DonationItem `json:"data"`
		Meta struct {
			Status     string `json:"status"`
			Page       int    `json:"page"`
			TotalPages int    `json:"totalPages"`
			Total      int    `json:"total"`
		} `json:"meta"`
	}
	if err := json.Unmarshal([]byte(out), &envelope); err != nil {
		t.Fatalf("Invalid JSON %q: %v", out, err)
	}
	if len(envelope.Data) != 2 || envelope.Data[0].ID != "item-11" {
		t.Errorf("Expected items 11-12 on page 2, got %+v", envelope.Data)
	}
	if envelope.Meta.Page != 2 || envelope.Meta.TotalPages != 2 || envelope.Meta.Total != 12 {
		t.Errorf("Unexpected meta %+v", envelope.Meta)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	f := newFakeAPI(4)
	url := isolate(t, f)

	out, _, err := runCLI(t, nil, "list", "--api-url", url, "--status", "Inactive")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "Item 02") || !strings.Contains(out, "Item 04") {
		t.Errorf("Expected inactive items, got:\n%s", out)
	}
	if strings.Contains(out, "Item 01") {
		t.Errorf("Expected active items filtered out, got:\n%s", out)
	}
}

func TestListStatusIgnoresCase(t *testing.T) {
	f := newFakeAPI(4)
	url := isolate(t, f)

	out, _, err := runCLI(t, nil, "list", "--api-url", url, "--status", "inactive", "--json")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	var envelope struct {
		Data []api.DonationItem `json:"data"`
		Meta struct {
			Status string `json:"status"`
		} `json:"meta"`
	}
	if err := json.Unmarshal([]byte(out), &envelope); err != nil {
		t.Fatalf("Invalid JSON %q: %v", out, err)
	}
	if envelope.Meta.Status != "Inactive" {
		t.Errorf("Expected status normalised to Inactive, got %q", envelope.Meta.Status)
	}
	if len(envelope.Data) != 2 {
		t.Errorf("Expected two inactive items, got %d", len(envelope.Data))
	}
}

func TestListEmpty(t *testing.T) {
	f := newFakeAPI(0)
	url := isolate(t, f)

	out, _, err := runCLI(t, nil, "list", "--api-url", url)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "No donation items.") {
		t.Errorf("Expected empty message, got %q", out)
	}
}

func TestCreateResolvesNames(t *testing.T) {
	f := newFakeAPI(2)
	url := isolate(t, f)

	out, _, err := runCLI(t, nil, "create", "--api-url", url,
		"--name", "School Books", "--location", "kenya", "--theme", "Education", "--price", "25")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !strings.Contains(out, `Created "School Books" (new-1)`) {
		t.Errorf("Unexpected output %q", out)
	}

	if len(f.posts) != 1 {
		t.Fatalf("Expected one POST, got %d", len(f.posts))
	}
	got := f.posts[0]
	if got.Location != "loc-1" || got.Theme != "th-2" {
		t.Errorf("Expected resolved ids, got location=%q theme=%q", got.Location, got.Theme)
	}
	if got.Price == nil || got.Price.Amount != 25 || got.Price.CurrencyCode != "GBP" {
		t.Errorf("Unexpected price %+v", got.Price)
	}
}

func TestCreateDuplicateNameNeverPosts(t *testing.T) {
	f := newFakeAPI(2)
	url := isolate(t, f)

	// INVARIANT: A name that matches an existing item ignoring case is rejected locally
	// BREAKS: Duplicate items reach the service
	_, stderr, err := runCLI(t, nil, "create", "--api-url", url,
		"--name", "item 01", "--location", "loc-1", "--theme", "th-1")
	var verr *form.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if verr.Fields[form.FieldName] != form.ErrNameUnique {
		t.Errorf("Expected unique-name error, got %v", verr.Fields)
	}
	if !strings.HasPrefix(stderr, "Error:") {
		t.Errorf("Expected error on stderr, got %q", stderr)
	}
	if len(f.posts) != 0 {
		t.Errorf("Expected no POST, got %d", len(f.posts))
	}
}

func TestResetRequiresYes(t *testing.T) {
	f := newFakeAPI(1)
	url := isolate(t, f)

	if _, _, err := runCLI(t, nil, "reset", "--api-url", url); err == nil {
		t.Fatal("Expected reset without --yes to fail")
	}
	if f.resets != 0 {
		t.Fatalf("Expected no reset call, got %d", f.resets)
	}

	out, _, err := runCLI(t, nil, "reset", "--api-url", url, "-y")
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if f.resets != 1 || !strings.Contains(out, "Donation data reset (1 items)") {
		t.Errorf("Unexpected reset result: calls=%d out=%q", f.resets, out)
	}
}

func TestLookups(t *testing.T) {
	f := newFakeAPI(0)
	url := isolate(t, f)

	out, _, err := runCLI(t, nil, "lookups", "themes", "--api-url", url)
	if err != nil {
		t.Fatalf("lookups failed: %v", err)
	}
	if !strings.Contains(out, "th-2") || !strings.Contains(out, "Education") {
		t.Errorf("Expected theme table, got:\n%s", out)
	}

	out, _, err = runCLI(t, nil, "lookups", "statuses", "--api-url", url, "--json")
	if err != nil {
		t.Fatalf("lookups --json failed: %v", err)
	}
	var envelope struct {
		Data []api.Status `json:"data"`
	}
	if err := json.Unmarshal([]byte(out), &envelope); err != nil || len(envelope.Data) != 2 {
		t.Errorf("Expected two statuses, got %q (%v)", out, err)
	}

	if _, _, err := runCLI(t, nil, "lookups", "colours", "--api-url", url); err == nil {
		t.Error("Expected unknown lookup to fail")
	}
}

func TestListFetchErrorReported(t *testing.T) {
	isolate(t, newFakeAPI(0))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[query]\nretry = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, stderr, err := runCLI(t, nil, "list", "--config", path, "--api-url", server.URL+basePath)
	var fetchErr *api.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected FetchError, got %v", err)
	}
	if !strings.Contains(stderr, "Error:") {
		t.Errorf("Expected error on stderr, got %q", stderr)
	}
}

func TestRootStartsTUI(t *testing.T) {
	f := newFakeAPI(0)
	url := isolate(t, f)

	var started tea.Model
	app := &App{runProgram: func(m tea.Model) error {
		started = m
		return nil
	}}
	if _, _, err := runCLI(t, app, "--api-url", url); err != nil {
		t.Fatalf("root failed: %v", err)
	}
	if _, ok := started.(ui.Model); !ok {
		t.Errorf("Expected ui.Model, got %T", started)
	}
}
