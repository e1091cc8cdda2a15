package handler

import (
	"fmt"
	"time"

	"github.com/campusnest/sublet-market/internal/core/domain"
	"github.com/campusnest/sublet-market/internal/core/ports"
)

// --- Request → Service input ---

func toListingInput(req createListingRequest) (ports.ListingInput, error) {
	from, err := parseRequestDate("availableFrom", req.AvailableFrom)
	if err != nil {
		return ports.ListingInput{}, err
	}
	until, err := parseRequestDate("availableUntil", req.AvailableUntil)
	if err != nil {
		return ports.ListingInput{}, err
	}
	return ports.ListingInput{
		Title:          req.Title,
		Description:    req.Description,
		Price:          req.Price,
		Address:        req.Address,
		Bedrooms:       req.Bedrooms,
		Bathrooms:      req.Bathrooms,
		AvailableFrom:  from,
		AvailableUntil: until,
		Amenities:      req.Amenities,
		Images:         req.Images,
		Published:      req.Published,
		IsDraft:        req.IsDraft,
	}, nil
}

func toListingPatch(req updateListingRequest) (ports.ListingPatch, error) {
	patch := ports.ListingPatch{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Address:     req.Address,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		Amenities:   req.Amenities,
		Images:      req.Images,
		Published:   req.Published,
		IsDraft:     req.IsDraft,
	}
	if req.AvailableFrom != nil {
		t, err := parseRequestDate("availableFrom", *req.AvailableFrom)
		if err != nil {
			return patch, err
		}
		patch.AvailableFrom = &t
	}
	if req.AvailableUntil != nil {
		t, err := parseRequestDate("availableUntil", *req.AvailableUntil)
		if err != nil {
			return patch, err
		}
		patch.AvailableUntil = &t
	}
	return patch, nil
}

func parseRequestDate(field, value string) (time.Time, error) {
	t, ok := domain.ParseDate(value)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s must be a date (YYYY-MM-DD) or RFC 3339 timestamp", domain.ErrInvalidInput, field)
	}
	return t, nil
}

// --- Service result → HTTP response ---

func toUserResponse(u *domain.User) userResponse {
	resp := userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Image:     u.Image,
		Role:      u.Role,
		CreatedAt: domain.FormatTime(u.CreatedAt),
	}
	if u.EmailVerified != nil {
		resp.EmailVerified = domain.FormatTime(*u.EmailVerified)
	}
	return resp
}

func toOwnerResponse(u domain.PublicUser) ownerResponse {
	return ownerResponse{ID: u.ID, Name: u.Name, Email: u.Email, Image: u.Image}
}

func toListingResponse(v ports.ListingView) listingResponse {
	l := v.Listing
	amenities := l.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	images := l.Images
	if images == nil {
		images = []string{}
	}
	return listingResponse{
		ID:             l.ID,
		Title:          l.Title,
		Description:    l.Description,
		Price:          l.Price,
		Address:        l.Address,
		Bedrooms:       l.Bedrooms,
		Bathrooms:      l.Bathrooms,
		AvailableFrom:  domain.FormatTime(l.AvailableFrom),
		AvailableUntil: domain.FormatTime(l.AvailableUntil),
		Amenities:      amenities,
		Images:         images,
		Published:      l.Published,
		IsDraft:        l.IsDraft,
		OwnerID:        l.OwnerID,
		CreatedAt:      domain.FormatTime(l.CreatedAt),
		UpdatedAt:      domain.FormatTime(l.UpdatedAt),
		Owner:          toOwnerResponse(v.Owner),
		IsSaved:        v.IsSaved,
	}
}

func toListingsResponse(views []ports.ListingView) listingsResponse {
	out := listingsResponse{Listings: make([]listingResponse, 0, len(views))}
	for _, v := range views {
		out.Listings = append(out.Listings, toListingResponse(v))
	}
	return out
}

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:         m.ID,
		Content:    m.Content,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		ListingID:  m.ListingID,
		Read:       m.Read,
		CreatedAt:  domain.FormatTime(m.CreatedAt),
	}
}

func toConversationResponse(c domain.Conversation) conversationResponse {
	resp := conversationResponse{
		OtherUser:   toOwnerResponse(c.OtherUser),
		UnreadCount: c.UnreadCount,
	}
	if c.LastMessage != nil {
		resp.LastMessage = toMessageResponse(c.LastMessage)
	}
	return resp
}

func toReportResponse(r *domain.Report) reportResponse {
	return reportResponse{
		ID:         r.ID,
		Reason:     r.Reason,
		Details:    r.Details,
		ReporterID: r.ReporterID,
		ListingID:  r.ListingID,
		Status:     string(r.Status),
		CreatedAt:  domain.FormatTime(r.CreatedAt),
		UpdatedAt:  domain.FormatTime(r.UpdatedAt),
	}
}
