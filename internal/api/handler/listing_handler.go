package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/campusnest/sublet-market/internal/core/ports"
	"github.com/campusnest/sublet-market/internal/pkg/metrics"
)

type ListingHandler struct {
	listingService ports.ListingService
}

func NewListingHandler(listingService ports.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// Search returns the listings matching the query. Malformed numeric or date
// parameters are ignored rather than rejected.
//
// @Summary      Search listings
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        search          query     string  false  "Case-insensitive text in title, description or address"
// @Param        minPrice        query     number  false  "Minimum monthly price (default 0)"
// @Param        maxPrice        query     number  false  "Maximum monthly price (default 10000)"
// @Param        bedrooms        query     string  false  "Exact bedroom count; 4 or 4+ means at least 4"
// @Param        availableFrom   query     string  false  "Listing must be available on or before this date"
// @Param        availableUntil  query     string  false  "Listing must be available on or after this date"
// @Param        amenities       query     string  false  "Comma separated amenities, all required"
// @Param        limit           query     int     false  "Page size (default 50, max 100)"
// @Param        scope           query     string  false  "mine or public"  Enums(mine, public)
// @Success      200             {object}  listingsResponse
// @Failure      401             {object}  errorResponse
// @Router       /v1/listings [get]
func (h *ListingHandler) Search(c echo.Context) error {
	caller := callerFrom(c)
	input := ports.ListingQueryInput{
		Search:         c.QueryParam("search"),
		MinPrice:       c.QueryParam("minPrice"),
		MaxPrice:       c.QueryParam("maxPrice"),
		Bedrooms:       c.QueryParam("bedrooms"),
		AvailableFrom:  c.QueryParam("availableFrom"),
		AvailableUntil: c.QueryParam("availableUntil"),
		Amenities:      c.QueryParams()["amenities"],
		Limit:          c.QueryParam("limit"),
		Scope:          c.QueryParam("scope"),
	}

	views, err := h.listingService.Search(c.Request().Context(), caller, input)
	if err != nil {
		return err
	}

	scope := ports.ScopePublic
	if caller.Authenticated() && strings.EqualFold(input.Scope, ports.ScopeMine) {
		scope = ports.ScopeMine
	}
	metrics.ListingQueriesTotal.WithLabelValues(scope).Inc()
	metrics.ListingQueryResults.Observe(float64(len(views)))

	return c.JSON(http.StatusOK, toListingsResponse(views))
}

// Get returns a single listing.
//
// @Summary      Get listing
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Listing ID"
// @Success      200  {object}  listingResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/listings/{id} [get]
func (h *ListingHandler) Get(c echo.Context) error {
	view, err := h.listingService.Get(c.Request().Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListingResponse(*view))
}

// Create publishes a new listing owned by the caller.
//
// @Summary      Create listing
// @Tags         listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createListingRequest  true  "Listing"
// @Success      201   {object}  listingResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/listings [post]
func (h *ListingHandler) Create(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	var req createListingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	input, err := toListingInput(req)
	if err != nil {
		return err
	}

	view, err := h.listingService.Create(c.Request().Context(), caller, input)
	if err != nil {
		return err
	}

	state := "draft"
	if view.Listing.IsPublic() {
		state = "published"
	}
	metrics.ListingsCreatedTotal.WithLabelValues(state).Inc()

	return c.JSON(http.StatusCreated, toListingResponse(*view))
}

// Update applies a partial change to one of the caller's listings.
//
// @Summary      Update listing
// @Tags         listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Listing ID"
// @Param        body  body      updateListingRequest  true  "Fields to change"
// @Success      200   {object}  listingResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/listings/{id} [patch]
func (h *ListingHandler) Update(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	var req updateListingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	patch, err := toListingPatch(req)
	if err != nil {
		return err
	}

	view, err := h.listingService.Update(c.Request().Context(), caller, c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListingResponse(*view))
}

// Delete removes one of the caller's listings.
//
// @Summary      Delete listing
// @Tags         listings
// @Security     BearerAuth
// @Param        id   path  string  true  "Listing ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/listings/{id} [delete]
func (h *ListingHandler) Delete(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	if err := h.listingService.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Save bookmarks a listing for the caller. Saving twice is a no-op.
//
// @Summary      Save listing
// @Tags         saved
// @Security     BearerAuth
// @Param        id   path  string  true  "Listing ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/listings/{id}/save [post]
func (h *ListingHandler) Save(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	if err := h.listingService.Save(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Unsave removes a bookmark.
//
// @Summary      Unsave listing
// @Tags         saved
// @Security     BearerAuth
// @Param        id   path  string  true  "Listing ID"
// @Success      204
// @Router       /v1/listings/{id}/save [delete]
func (h *ListingHandler) Unsave(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	if err := h.listingService.Unsave(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListSaved returns the caller's bookmarked listings that are still visible.
//
// @Summary      Saved listings
// @Tags         saved
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listingsResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/saved [get]
func (h *ListingHandler) ListSaved(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	views, err := h.listingService.ListSaved(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListingsResponse(views))
}
