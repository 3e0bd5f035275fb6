// Package inventory holds the view-state for the sneaker collection screens:
// an observable list view with filtering and a creation form, and a detail
// view with an explicit viewing/editing state machine. All state lives in
// cells; derived values are pure functions of the current snapshot.
package inventory

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/SanderWeide/sneaker-engine/internal/client"
	"github.com/SanderWeide/sneaker-engine/internal/model"
	"github.com/SanderWeide/sneaker-engine/internal/session"
	"github.com/SanderWeide/sneaker-engine/internal/state"
)

// CreateForm holds the free-form creation inputs before validation.
type CreateForm struct {
	SKU           string
	Brand         string
	Model         string
	Size          string
	Color         string
	PurchasePrice string
	Description   string
}

// Draft validates the form and converts it to a create payload.
func (f CreateForm) Draft() (model.SneakerDraft, error) {
	draft := model.SneakerDraft{
		SKU:         strings.TrimSpace(f.SKU),
		Brand:       strings.TrimSpace(f.Brand),
		Model:       strings.TrimSpace(f.Model),
		Color:       strings.TrimSpace(f.Color),
		Description: strings.TrimSpace(f.Description),
	}

	size, err := strconv.ParseFloat(strings.TrimSpace(f.Size), 64)
	if err != nil {
		return draft, &client.ValidationError{Message: "size must be a number"}
	}
	draft.Size = size

	if price := strings.TrimSpace(f.PurchasePrice); price != "" {
		value, err := strconv.ParseFloat(price, 64)
		if err != nil {
			return draft, &client.ValidationError{Message: "purchase price must be a number"}
		}
		draft.PurchasePrice = &value
	}

	if err := draft.Validate(); err != nil {
		return draft, &client.ValidationError{Message: err.Error()}
	}
	return draft, nil
}

// ListView is the observable state behind the collection screen.
type ListView struct {
	client  *client.Client
	session *session.Store

	Items     *state.Cell[[]model.Sneaker]
	IsLoading *state.Cell[bool]
	Filters   *state.Cell[FilterCriteria]
	Form      *state.Cell[CreateForm]
	LastError *state.Cell[error]
}

// FilterCriteria holds the three list filters. Keeping them in one cell means
// any change, including a full reset, is a single update to subscribers.
type FilterCriteria struct {
	SearchText string
	Brand      string
	Size       string
}

// NewListView creates a list view over the given API client and session.
func NewListView(c *client.Client, s *session.Store) *ListView {
	return &ListView{
		client:    c,
		session:   s,
		Items:     state.NewCell[[]model.Sneaker](nil),
		IsLoading: state.NewCell(false),
		Filters:   state.NewCell(FilterCriteria{}),
		Form:      state.NewCell(CreateForm{}),
		LastError: state.NewCell[error](nil),
	}
}

// SetSearchText updates the free-text filter.
func (v *ListView) SetSearchText(text string) {
	f := v.Filters.Get()
	f.SearchText = text
	v.Filters.Set(f)
}

// SetBrand updates the exact-brand filter.
func (v *ListView) SetBrand(brand string) {
	f := v.Filters.Get()
	f.Brand = brand
	v.Filters.Set(f)
}

// SetSize updates the exact-size filter.
func (v *ListView) SetSize(size string) {
	f := v.Filters.Get()
	f.Size = size
	v.Filters.Set(f)
}

// sizeString renders a size the way it is matched against the size filter.
func sizeString(size float64) string {
	return strconv.FormatFloat(size, 'f', -1, 64)
}

// AvailableBrands returns the distinct brands across loaded items in
// lexicographic order.
func (v *ListView) AvailableBrands() []string {
	seen := map[string]bool{}
	var brands []string
	for _, item := range v.Items.Get() {
		if !seen[item.Brand] {
			seen[item.Brand] = true
			brands = append(brands, item.Brand)
		}
	}
	sort.Strings(brands)
	return brands
}

// AvailableSizes returns the distinct sizes across loaded items, ordered
// numerically rather than lexically.
func (v *ListView) AvailableSizes() []string {
	seen := map[float64]bool{}
	var sizes []float64
	for _, item := range v.Items.Get() {
		if !seen[item.Size] {
			seen[item.Size] = true
			sizes = append(sizes, item.Size)
		}
	}
	sort.Float64s(sizes)

	result := make([]string, len(sizes))
	for i, size := range sizes {
		result[i] = sizeString(size)
	}
	return result
}

// FilteredItems narrows the loaded items by the three filter cells. The
// search is a case-insensitive substring match against brand, model, sku and
// color; brand and size filters are exact matches. Filters compose with AND.
func (v *ListView) FilteredItems() []model.Sneaker {
	items := v.Items.Get()
	criteria := v.Filters.Get()
	search := strings.ToLower(criteria.SearchText)
	brand := criteria.Brand
	size := criteria.Size

	var filtered []model.Sneaker
	for _, item := range items {
		if search != "" && !matchesSearch(item, search) {
			continue
		}
		if brand != "" && item.Brand != brand {
			continue
		}
		if size != "" && sizeString(item.Size) != size {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

func matchesSearch(item model.Sneaker, query string) bool {
	return strings.Contains(strings.ToLower(item.Brand), query) ||
		strings.Contains(strings.ToLower(item.Model), query) ||
		strings.Contains(strings.ToLower(item.SKU), query) ||
		strings.Contains(strings.ToLower(item.Color), query)
}

// Load fetches the current user's items and replaces the list wholesale. On
// failure the previous items are kept and the error is recorded in LastError.
func (v *ListView) Load(ctx context.Context) {
	user := v.session.CurrentUser()
	if user == nil {
		v.LastError.Set(&client.AuthError{Message: "not logged in"})
		return
	}

	v.IsLoading.Set(true)
	defer v.IsLoading.Set(false)

	items, err := v.client.ListSneakers(ctx, client.ListFilter{UserID: user.ID})
	if err != nil {
		slog.Error("loading sneakers", "error", err)
		v.LastError.Set(err)
		return
	}

	v.Items.Set(items)
	v.LastError.Set(nil)
}

// Submit validates the creation form and creates the sneaker. While a call is
// in flight further submits are no-ops. On success the new item is appended
// and the form reset; on failure the form is left untouched for correction.
func (v *ListView) Submit(ctx context.Context) {
	if v.IsLoading.Get() {
		return
	}

	draft, err := v.Form.Get().Draft()
	if err != nil {
		v.LastError.Set(err)
		return
	}

	v.IsLoading.Set(true)
	defer v.IsLoading.Set(false)

	created, err := v.client.CreateSneaker(ctx, draft)
	if err != nil {
		slog.Error("creating sneaker", "error", err)
		v.LastError.Set(err)
		return
	}

	v.Items.Set(append(v.Items.Get(), *created))
	v.Form.Set(CreateForm{})
	v.LastError.Set(nil)
}

// ClearFilters resets all three filters in one update.
func (v *ListView) ClearFilters() {
	v.Filters.Set(FilterCriteria{})
}
