package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/campusnest/sublet-market/internal/core/domain"
	"github.com/campusnest/sublet-market/internal/core/ports"
)

func sampleView() ports.ListingView {
	return ports.ListingView{
		Listing: &domain.Listing{
			ID:             "l1",
			Title:          "Room near campus",
			Price:          900,
			Address:        "1 College Ave",
			Bedrooms:       2,
			AvailableFrom:  time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			AvailableUntil: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
			Amenities:      []string{"Parking"},
			Published:      true,
			OwnerID:        "owner",
			CreatedAt:      time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
			UpdatedAt:      time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC),
		},
		Owner:   domain.PublicUser{ID: "owner", Name: "Olive", Email: "olive@example.com"},
		IsSaved: true,
	}
}

func TestListingHandler_Search_PassesRawQuery(t *testing.T) {
	stub := &stubListingService{
		searchFn: func(ctx context.Context, caller domain.Caller, input ports.ListingQueryInput) ([]ports.ListingView, error) {
			if caller.Authenticated() {
				t.Fatalf("expected anonymous caller, got %+v", caller)
			}
			want := ports.ListingQueryInput{
				Search:    "campus",
				MaxPrice:  "1000",
				Bedrooms:  "4+",
				Amenities: []string{"Parking", "Furnished,Laundry"},
				Scope:     "public",
			}
			if !reflect.DeepEqual(input, want) {
				t.Fatalf("unexpected input:\n got %+v\nwant %+v", input, want)
			}
			return []ports.ListingView{sampleView()}, nil
		},
	}
	handler := NewListingHandler(stub)

	target := "/v1/listings?search=campus&maxPrice=1000&bedrooms=4%2B&amenities=Parking&amenities=Furnished,Laundry&scope=public"
	c, rec := newContext(http.MethodGet, target, nil, "", "")

	if err := handler.Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string][]map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	listings := resp["listings"]
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(listings))
	}
	got := listings[0]
	if got["id"] != "l1" || got["isSaved"] != true || got["ownerId"] != "owner" {
		t.Fatalf("unexpected listing payload: %+v", got)
	}
	if got["availableFrom"] != "2026-06-01T00:00:00.000Z" || got["createdAt"] != "2026-05-01T12:00:00.000Z" {
		t.Fatalf("unexpected timestamps: %v %v", got["availableFrom"], got["createdAt"])
	}
	owner, ok := got["owner"].(map[string]any)
	if !ok || owner["name"] != "Olive" || owner["email"] != "olive@example.com" {
		t.Fatalf("unexpected owner: %+v", got["owner"])
	}
}

func TestListingHandler_Search_EmptyResultIsArray(t *testing.T) {
	stub := &stubListingService{
		searchFn: func(ctx context.Context, caller domain.Caller, input ports.ListingQueryInput) ([]ports.ListingView, error) {
			return nil, nil
		},
	}
	handler := NewListingHandler(stub)

	c, rec := newContext(http.MethodGet, "/v1/listings", nil, "u1", domain.RoleUser)
	if err := handler.Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"listings":[]}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestListingHandler_Get_NotFound(t *testing.T) {
	stub := &stubListingService{
		getFn: func(ctx context.Context, caller domain.Caller, id string) (*ports.ListingView, error) {
			if id != "missing" {
				t.Fatalf("unexpected id %q", id)
			}
			return nil, domain.ErrListingNotFound
		},
	}
	handler := NewListingHandler(stub)

	c, _ := newContext(http.MethodGet, "/v1/listings/missing", nil, "", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := handler.Get(c); !errors.Is(err, domain.ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}

func TestListingHandler_Create(t *testing.T) {
	stub := &stubListingService{
		createFn: func(ctx context.Context, caller domain.Caller, input ports.ListingInput) (*ports.ListingView, error) {
			if caller.UserID != "owner" {
				t.Fatalf("unexpected caller %+v", caller)
			}
			if !input.AvailableFrom.Equal(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)) {
				t.Fatalf("unexpected availableFrom %v", input.AvailableFrom)
			}
			if !input.AvailableUntil.Equal(time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)) {
				t.Fatalf("unexpected availableUntil %v", input.AvailableUntil)
			}
			if !input.Published || input.Price != 900 {
				t.Fatalf("unexpected input %+v", input)
			}
			v := sampleView()
			v.IsSaved = false
			return &v, nil
		},
	}
	handler := NewListingHandler(stub)

	body := strings.NewReader(`{"title":"Room near campus","address":"1 College Ave","price":900,"bedrooms":2,` +
		`"availableFrom":"2026-06-01","availableUntil":"2026-08-31T12:00:00Z","published":true}`)
	c, rec := newContext(http.MethodPost, "/v1/listings", body, "owner", domain.RoleUser)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestListingHandler_Create_BadDate(t *testing.T) {
	stub := &stubListingService{
		createFn: func(ctx context.Context, caller domain.Caller, input ports.ListingInput) (*ports.ListingView, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	handler := NewListingHandler(stub)

	body := strings.NewReader(`{"title":"x","address":"y","availableFrom":"June 1st","availableUntil":"2026-08-31"}`)
	c, _ := newContext(http.MethodPost, "/v1/listings", body, "owner", domain.RoleUser)

	err := handler.Create(c)
	if !errors.Is(err, domain.ErrInvalidInput) || !strings.Contains(err.Error(), "availableFrom") {
		t.Fatalf("expected availableFrom input error, got %v", err)
	}
}

func TestListingHandler_Create_RequiresAuth(t *testing.T) {
	handler := NewListingHandler(&stubListingService{})

	c, _ := newContext(http.MethodPost, "/v1/listings", strings.NewReader(`{}`), "", "")
	if err := handler.Create(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestListingHandler_Update_PartialPatch(t *testing.T) {
	stub := &stubListingService{
		updateFn: func(ctx context.Context, caller domain.Caller, id string, patch ports.ListingPatch) (*ports.ListingView, error) {
			if id != "l1" {
				t.Fatalf("unexpected id %q", id)
			}
			if patch.Price == nil || *patch.Price != 850 {
				t.Fatalf("expected price patch, got %+v", patch.Price)
			}
			if patch.Title != nil || patch.AvailableFrom != nil || patch.Amenities != nil {
				t.Fatalf("absent fields must stay nil: %+v", patch)
			}
			if patch.IsDraft == nil || !*patch.IsDraft {
				t.Fatalf("expected isDraft patch")
			}
			v := sampleView()
			return &v, nil
		},
	}
	handler := NewListingHandler(stub)

	c, rec := newContext(http.MethodPatch, "/v1/listings/l1", strings.NewReader(`{"price":850,"isDraft":true}`), "owner", domain.RoleUser)
	c.SetParamNames("id")
	c.SetParamValues("l1")

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestListingHandler_SaveAndUnsave(t *testing.T) {
	var saved, unsaved string
	stub := &stubListingService{
		saveFn: func(ctx context.Context, caller domain.Caller, listingID string) error {
			saved = caller.UserID + ":" + listingID
			return nil
		},
		unsaveFn: func(ctx context.Context, caller domain.Caller, listingID string) error {
			unsaved = caller.UserID + ":" + listingID
			return nil
		},
	}
	handler := NewListingHandler(stub)

	c, rec := newContext(http.MethodPost, "/v1/listings/l1/save", nil, "u1", domain.RoleUser)
	c.SetParamNames("id")
	c.SetParamValues("l1")
	if err := handler.Save(c); err != nil {
		t.Fatalf("save: %v", err)
	}
	if rec.Code != http.StatusNoContent || saved != "u1:l1" {
		t.Fatalf("save: code %d saved %q", rec.Code, saved)
	}

	c, rec = newContext(http.MethodDelete, "/v1/listings/l1/save", nil, "u1", domain.RoleUser)
	c.SetParamNames("id")
	c.SetParamValues("l1")
	if err := handler.Unsave(c); err != nil {
		t.Fatalf("unsave: %v", err)
	}
	if rec.Code != http.StatusNoContent || unsaved != "u1:l1" {
		t.Fatalf("unsave: code %d unsaved %q", rec.Code, unsaved)
	}
}

func TestListingHandler_ListSaved(t *testing.T) {
	stub := &stubListingService{
		listSavedFn: func(ctx context.Context, caller domain.Caller) ([]ports.ListingView, error) {
			return []ports.ListingView{sampleView()}, nil
		},
	}
	handler := NewListingHandler(stub)

	c, rec := newContext(http.MethodGet, "/v1/saved", nil, "u1", domain.RoleUser)
	if err := handler.ListSaved(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp listingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Listings) != 1 || !resp.Listings[0].IsSaved {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
