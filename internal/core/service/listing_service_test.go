package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/campusnest/sublet-market/internal/core/domain"
	"github.com/campusnest/sublet-market/internal/core/ports"
)

func ids(views []ports.ListingView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Listing.ID
	}
	return out
}

func day(n int) time.Time {
	return time.Date(2025, 1, n, 0, 0, 0, 0, time.UTC)
}

func TestListingService_Search_ScopeScenario(t *testing.T) {
	f := newFixture()
	caller := f.addUser("me", "Me", domain.RoleUser)
	f.addUser("other", "Other", domain.RoleUser)

	f.addListing(domain.Listing{ID: "A", OwnerID: "other", Published: true, Price: 800, CreatedAt: day(1)})
	f.addListing(domain.Listing{ID: "B", OwnerID: "other", Published: false, Price: 1200, CreatedAt: day(2)})
	f.addListing(domain.Listing{ID: "C", OwnerID: "me", Published: true, IsDraft: true, Price: 900, CreatedAt: day(3)})

	public, err := f.listings.Search(context.Background(), caller, ports.ListingQueryInput{Scope: "public", MaxPrice: "1000"})
	if err != nil {
		t.Fatalf("public search returned error: %v", err)
	}
	if got := ids(public); !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("expected [A], got %v", got)
	}

	mine, err := f.listings.Search(context.Background(), caller, ports.ListingQueryInput{Scope: "mine"})
	if err != nil {
		t.Fatalf("mine search returned error: %v", err)
	}
	if got := ids(mine); !reflect.DeepEqual(got, []string{"C"}) {
		t.Fatalf("expected [C], got %v", got)
	}
}

func TestListingService_Search_Filters(t *testing.T) {
	f := newFixture()
	f.addUser("o", "Owner", domain.RoleUser)

	f.addListing(domain.Listing{ID: "l1", OwnerID: "o", Published: true, Price: 500, Bedrooms: 2,
		Title: "Sunny loft", Address: "1 Elm St", Amenities: []string{"Parking", "Furnished"}, CreatedAt: day(1),
		AvailableUntil: time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)})
	f.addListing(domain.Listing{ID: "l2", OwnerID: "o", Published: true, Price: 700, Bedrooms: 4,
		Title: "Big house", Description: "near campus", Amenities: []string{"Parking"}, CreatedAt: day(2)})
	f.addListing(domain.Listing{ID: "l3", OwnerID: "o", Published: true, Price: 900, Bedrooms: 6,
		Title: "Mansion", Address: "9 Campus Rd", Amenities: []string{"Parking", "Furnished", "Laundry"}, CreatedAt: day(3),
		AvailableFrom: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)})

	cases := []struct {
		name  string
		input ports.ListingQueryInput
		want  []string
	}{
		{"newest first", ports.ListingQueryInput{}, []string{"l3", "l2", "l1"}},
		{"price range", ports.ListingQueryInput{MinPrice: "600", MaxPrice: "800"}, []string{"l2"}},
		{"exact bedrooms", ports.ListingQueryInput{Bedrooms: "2"}, []string{"l1"}},
		{"four plus", ports.ListingQueryInput{Bedrooms: "4"}, []string{"l3", "l2"}},
		{"amenities superset", ports.ListingQueryInput{Amenities: []string{"Parking,Furnished"}}, []string{"l3", "l1"}},
		{"search any field", ports.ListingQueryInput{Search: "CAMPUS"}, []string{"l3", "l2"}},
		{"available by start", ports.ListingQueryInput{AvailableFrom: "2025-06-15"}, []string{"l2", "l1"}},
		{"available through end", ports.ListingQueryInput{AvailableUntil: "2025-08-15"}, []string{"l3", "l2"}},
		{"available for whole stay", ports.ListingQueryInput{AvailableFrom: "2025-06-15", AvailableUntil: "2025-08-15T00:00:00Z"}, []string{"l2"}},
		{"limit", ports.ListingQueryInput{Limit: "1"}, []string{"l3"}},
	}

	for _, tc := range cases {
		got, err := f.listings.Search(context.Background(), domain.Anonymous, tc.input)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if !reflect.DeepEqual(ids(got), tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, ids(got))
		}
		for _, v := range got {
			if v.Listing.Price < 0 || v.Listing.Price > 10000 {
				t.Fatalf("%s: price %v outside default range", tc.name, v.Listing.Price)
			}
		}
	}
}

func TestListingService_Search_AnnotatesOwnerAndSaved(t *testing.T) {
	f := newFixture()
	caller := f.addUser("me", "Me", domain.RoleUser)
	f.addUser("o", "Olivia", domain.RoleUser)
	f.addListing(domain.Listing{ID: "l1", OwnerID: "o", Published: true, CreatedAt: day(1)})
	f.addListing(domain.Listing{ID: "l2", OwnerID: "o", Published: true, CreatedAt: day(2)})

	if err := f.listings.Save(context.Background(), caller, "l1"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	views, err := f.listings.Search(context.Background(), caller, ports.ListingQueryInput{})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	saved := map[string]bool{}
	for _, v := range views {
		saved[v.Listing.ID] = v.IsSaved
		if v.Owner.Name != "Olivia" || v.Owner.Email != "olivia@example.com" {
			t.Fatalf("unexpected owner projection: %+v", v.Owner)
		}
	}
	if !saved["l1"] || saved["l2"] {
		t.Fatalf("unexpected saved flags: %v", saved)
	}

	anon, err := f.listings.Search(context.Background(), domain.Anonymous, ports.ListingQueryInput{})
	if err != nil {
		t.Fatalf("anonymous search failed: %v", err)
	}
	for _, v := range anon {
		if v.IsSaved {
			t.Fatalf("anonymous caller must never see saved=true")
		}
	}
}

func TestListingService_Search_Idempotent(t *testing.T) {
	f := newFixture()
	f.addUser("o", "Owner", domain.RoleUser)
	for _, id := range []string{"a", "b", "c", "d"} {
		f.addListing(domain.Listing{ID: id, OwnerID: "o", Published: true, CreatedAt: day(1)})
	}

	input := ports.ListingQueryInput{MaxPrice: "5000"}
	first, err := f.listings.Search(context.Background(), domain.Anonymous, input)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	second, err := f.listings.Search(context.Background(), domain.Anonymous, input)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if !reflect.DeepEqual(ids(first), ids(second)) {
		t.Fatalf("repeated query changed order: %v vs %v", ids(first), ids(second))
	}
	if want := []string{"d", "c", "b", "a"}; !reflect.DeepEqual(ids(first), want) {
		t.Fatalf("expected id tie-break %v, got %v", want, ids(first))
	}
}

func TestListingService_Get_Visibility(t *testing.T) {
	f := newFixture()
	owner := f.addUser("o", "Owner", domain.RoleUser)
	stranger := f.addUser("s", "Stranger", domain.RoleUser)
	admin := f.addUser("adm", "Admin", domain.RoleAdmin)
	f.addListing(domain.Listing{ID: "draft", OwnerID: "o", Published: true, IsDraft: true})

	if _, err := f.listings.Get(context.Background(), stranger, "draft"); !errors.Is(err, domain.ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound for stranger, got %v", err)
	}
	if _, err := f.listings.Get(context.Background(), owner, "draft"); err != nil {
		t.Fatalf("owner must see draft: %v", err)
	}
	if _, err := f.listings.Get(context.Background(), admin, "draft"); err != nil {
		t.Fatalf("admin must see draft: %v", err)
	}
	if _, err := f.listings.Get(context.Background(), owner, "missing"); !errors.Is(err, domain.ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}

func validListingInput() ports.ListingInput {
	return ports.ListingInput{
		Title:          "  Studio near campus ",
		Description:    "Quiet studio",
		Price:          650,
		Address:        "12 College Ave",
		Bedrooms:       1,
		Bathrooms:      1,
		AvailableFrom:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		AvailableUntil: time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC),
		Amenities:      []string{"Furnished", "Furnished", "WiFi"},
		Images:         []string{"https://img/1.jpg", " ", "https://img/2.jpg"},
		Published:      true,
	}
}

func TestListingService_Create(t *testing.T) {
	f := newFixture()
	caller := f.addUser("o", "Owner", domain.RoleUser)

	if _, err := f.listings.Create(context.Background(), domain.Anonymous, validListingInput()); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	view, err := f.listings.Create(context.Background(), caller, validListingInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	l := view.Listing
	if l.ID == "" || l.OwnerID != "o" {
		t.Fatalf("unexpected listing identity: %+v", l)
	}
	if l.Title != "Studio near campus" {
		t.Fatalf("expected trimmed title, got %q", l.Title)
	}
	if !reflect.DeepEqual(l.Amenities, []string{"Furnished", "WiFi"}) {
		t.Fatalf("unexpected amenities: %v", l.Amenities)
	}
	if !reflect.DeepEqual(l.Images, []string{"https://img/1.jpg", "https://img/2.jpg"}) {
		t.Fatalf("unexpected images: %v", l.Images)
	}
	if view.Owner.ID != "o" || view.IsSaved {
		t.Fatalf("unexpected annotation: %+v", view)
	}

	bad := validListingInput()
	bad.AvailableUntil = bad.AvailableFrom
	bad.Title = ""
	if _, err := f.listings.Create(context.Background(), caller, bad); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListingService_Update(t *testing.T) {
	f := newFixture()
	owner := f.addUser("o", "Owner", domain.RoleUser)
	stranger := f.addUser("s", "Stranger", domain.RoleUser)
	f.addListing(domain.Listing{ID: "l1", OwnerID: "o", Published: true, Title: "Old", Description: "d", Address: "a", Price: 100})
	f.addListing(domain.Listing{ID: "l2", OwnerID: "o", Published: false, Title: "Hidden", Description: "d", Address: "a"})

	title := "New"
	price := 150.0
	view, err := f.listings.Update(context.Background(), owner, "l1", ports.ListingPatch{Title: &title, Price: &price})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if view.Listing.Title != "New" || view.Listing.Price != 150 {
		t.Fatalf("patch not applied: %+v", view.Listing)
	}

	if _, err := f.listings.Update(context.Background(), stranger, "l1", ports.ListingPatch{Title: &title}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.listings.Update(context.Background(), stranger, "l2", ports.ListingPatch{Title: &title}); !errors.Is(err, domain.ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound for hidden listing, got %v", err)
	}

	negative := -1.0
	if _, err := f.listings.Update(context.Background(), owner, "l1", ports.ListingPatch{Price: &negative}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListingService_Delete(t *testing.T) {
	f := newFixture()
	owner := f.addUser("o", "Owner", domain.RoleUser)
	stranger := f.addUser("s", "Stranger", domain.RoleUser)
	admin := f.addUser("adm", "Admin", domain.RoleAdmin)
	f.addListing(domain.Listing{ID: "l1", OwnerID: "o", Published: true})
	f.addListing(domain.Listing{ID: "l2", OwnerID: "o", Published: true})

	if err := f.listings.Delete(context.Background(), stranger, "l1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := f.listings.Delete(context.Background(), owner, "l1"); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if err := f.listings.Delete(context.Background(), admin, "l2"); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if len(f.store.listings) != 0 {
		t.Fatalf("expected no listings left, got %d", len(f.store.listings))
	}
}
