package operations

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nickpending/donations/internal/api"
	"github.com/nickpending/donations/internal/query"
	"github.com/nickpending/donations/internal/service"
)

// stubClient serves canned data and counts calls
type stubClient struct {
	mu        sync.Mutex
	items     []api.DonationItem
	itemsErr  error
	createErr error
	calls     map[string]int
}

func (s *stubClient) hit(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[name]++
}

func (s *stubClient) FetchDonationItems(ctx context.Context) ([]api.DonationItem, error) {
	s.hit("items")
	return s.items, s.itemsErr
}

func (s *stubClient) FetchStatuses(ctx context.Context) ([]api.Status, error) {
	s.hit("statuses")
	return []api.Status{{ID: "active", Name: "Active"}}, nil
}

func (s *stubClient) FetchLocations(ctx context.Context) ([]api.Location, error) {
	s.hit("locations")
	return nil, errors.New("locations down")
}

func (s *stubClient) FetchThemes(ctx context.Context) ([]api.Theme, error) {
	s.hit("themes")
	return []api.Theme{{ID: "th-1", Name: "Water"}}, nil
}

func (s *stubClient) CreateDonationItem(ctx context.Context, request api.CreateDonationItemRequest) (*api.DonationItem, error) {
	s.hit("create")
	if s.createErr != nil {
		return nil, s.createErr
	}
	item := api.DonationItem{ID: "new-1", Name: request.Name}
	s.mu.Lock()
	s.items = append(s.items, item)
	s.mu.Unlock()
	return &item, nil
}

func (s *stubClient) ResetDonationData(ctx context.Context) (*api.DonationItem, error) {
	s.hit("reset")
	return nil, nil
}

func TestLoadItems(t *testing.T) {
	client := &stubClient{items: []api.DonationItem{{ID: "a", Name: "A"}}}
	store := service.NewStore(client, query.Options{})

	msg := LoadItems(store, 0)().(ItemsLoadedMsg)
	if msg.Err != nil || len(msg.Items) != 1 {
		t.Fatalf("Unexpected result %+v", msg)
	}
	if msg.Manual || msg.Auto {
		t.Error("Expected mount to be neither manual nor auto")
	}
}

func TestRefreshItemsKeepsPreviousOnError(t *testing.T) {
	client := &stubClient{items: []api.DonationItem{{ID: "a", Name: "A"}}}
	store := service.NewStore(client, query.Options{})
	LoadItems(store, 0)()

	client.itemsErr = errors.New("boom")
	msg := RefreshItems(store, 0, false)().(ItemsLoadedMsg)
	if msg.Err == nil || !msg.Manual {
		t.Fatalf("Expected manual failure, got %+v", msg)
	}
	if len(msg.Items) != 1 {
		t.Errorf("Expected cached items kept, got %d", len(msg.Items))
	}
}

func TestCreateItemCarriesRefetchedList(t *testing.T) {
	client := &stubClient{}
	store := service.NewStore(client, query.Options{})

	msg := CreateItem(store, api.CreateDonationItemRequest{Name: "Books", Location: "l", Theme: "t"}, 0)().(ItemCreatedMsg)
	if msg.Err != nil || msg.Item == nil || msg.Item.ID != "new-1" {
		t.Fatalf("Unexpected result %+v", msg)
	}
	if len(msg.Items) != 1 || msg.Items[0].Name != "Books" {
		t.Errorf("Expected refetched list with the new item, got %+v", msg.Items)
	}
}

func TestCreateItemFailureSkipsRefetch(t *testing.T) {
	client := &stubClient{createErr: errors.New("rejected")}
	store := service.NewStore(client, query.Options{})

	msg := CreateItem(store, api.CreateDonationItemRequest{Name: "Books"}, 0)().(ItemCreatedMsg)
	if msg.Err == nil {
		t.Fatal("Expected create error")
	}
	if client.calls["items"] != 0 {
		t.Errorf("Expected no refetch after a failed create, got %d", client.calls["items"])
	}
}

func TestLoadAllIssuesEveryRead(t *testing.T) {
	client := &stubClient{}
	store := service.NewStore(client, query.Options{})

	batch, ok := LoadAll(store, 0)().(tea.BatchMsg)
	if !ok || len(batch) != 4 {
		t.Fatalf("Expected a batch of four reads, got %T", batch)
	}

	lookups := map[string]error{}
	for _, cmd := range batch {
		if msg, ok := cmd().(LookupLoadedMsg); ok {
			lookups[msg.Kind] = msg.Err
		}
	}
	if len(lookups) != 3 {
		t.Fatalf("Expected three lookup results, got %v", lookups)
	}
	if lookups[LookupLocations] == nil {
		t.Error("Expected the location failure to be reported")
	}
	if lookups[LookupStatuses] != nil || lookups[LookupThemes] != nil {
		t.Error("Expected one failing lookup to leave the others intact")
	}
}
