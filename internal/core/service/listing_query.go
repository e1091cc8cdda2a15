package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/campusnest/sublet-market/internal/core/domain"
	"github.com/campusnest/sublet-market/internal/core/ports"
)

const (
	defaultMinPrice     = 0
	defaultMaxPrice     = 10000
	defaultListingLimit = 50
	maxListingLimit     = 100

	// bedroomsAtLeast is the bedroom count rendered as "4+" in the UI.
	bedroomsAtLeast = 4
)

// NormalizeListingQuery turns raw query values into a ListingFilter.
// Malformed values are treated as absent so their defaults apply; this
// function never fails.
func NormalizeListingQuery(caller domain.Caller, in ports.ListingQueryInput) ports.ListingFilter {
	f := ports.ListingFilter{
		Search:    strings.TrimSpace(in.Search),
		MinPrice:  parsePrice(in.MinPrice, defaultMinPrice),
		MaxPrice:  parsePrice(in.MaxPrice, defaultMaxPrice),
		Amenities: normalizeAmenities(in.Amenities),
		Limit:     parseLimit(in.Limit),
	}

	if strings.EqualFold(strings.TrimSpace(in.Scope), ports.ScopeMine) && caller.Authenticated() {
		f.OwnerID = caller.UserID
	}

	if n, ok := parseBedrooms(in.Bedrooms); ok {
		f.Bedrooms = &n
		f.BedroomsAtLeast = n == bedroomsAtLeast
	}

	if t, ok := domain.ParseDate(in.AvailableFrom); ok {
		f.AvailableFrom = &t
	}
	if t, ok := domain.ParseDate(in.AvailableUntil); ok {
		f.AvailableUntil = &t
	}

	return f
}

// parseBedrooms accepts a non-negative count. The "+" suffix is only valid on
// the bedroomsAtLeast sentinel; "5+" is malformed.
func parseBedrooms(s string) (int, bool) {
	raw := strings.TrimSpace(s)
	plus := strings.HasSuffix(raw, "+")
	n, err := strconv.Atoi(strings.TrimSuffix(raw, "+"))
	if err != nil || n < 0 {
		return 0, false
	}
	if plus && n != bedroomsAtLeast {
		return 0, false
	}
	return n, true
}

func parsePrice(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return def
	}
	return v
}

func parseLimit(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return defaultListingLimit
	}
	if n > maxListingLimit {
		return maxListingLimit
	}
	return n
}

// normalizeAmenities splits comma separated values, trims them and drops
// blanks and duplicates while keeping the first-seen order.
func normalizeAmenities(values []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, v := range values {
		for _, a := range strings.Split(v, ",") {
			a = strings.TrimSpace(a)
			if a == "" {
				continue
			}
			if _, dup := seen[a]; dup {
				continue
			}
			seen[a] = struct{}{}
			out = append(out, a)
		}
	}
	return out
}
