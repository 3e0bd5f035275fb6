package inventory

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/SanderWeide/sneaker-engine/internal/client"
	"github.com/SanderWeide/sneaker-engine/internal/model"
	"github.com/SanderWeide/sneaker-engine/internal/session"
	"github.com/SanderWeide/sneaker-engine/internal/state"
)

// Mode is the detail view's display state.
type Mode int

const (
	ModeLoading Mode = iota
	ModeViewing
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeViewing:
		return "viewing"
	case ModeEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// EditForm holds the editable fields of a sneaker as free-form strings.
type EditForm struct {
	SKU           string
	Brand         string
	Model         string
	Size          string
	Color         string
	PurchasePrice string
	Description   string
}

func formFromSneaker(s model.Sneaker) EditForm {
	form := EditForm{
		SKU:         s.SKU,
		Brand:       s.Brand,
		Model:       s.Model,
		Size:        sizeString(s.Size),
		Color:       s.Color,
		Description: s.Description,
	}
	if s.PurchasePrice != nil {
		form.PurchasePrice = strconv.FormatFloat(*s.PurchasePrice, 'f', -1, 64)
	}
	return form
}

// Patch validates the form and converts it to an update payload.
func (f EditForm) Patch() (model.SneakerPatch, error) {
	var patch model.SneakerPatch

	sku := strings.TrimSpace(f.SKU)
	brand := strings.TrimSpace(f.Brand)
	modelName := strings.TrimSpace(f.Model)
	color := strings.TrimSpace(f.Color)
	description := strings.TrimSpace(f.Description)
	if sku == "" || brand == "" || modelName == "" {
		return patch, &client.ValidationError{Message: "sku, brand and model are required"}
	}

	size, err := strconv.ParseFloat(strings.TrimSpace(f.Size), 64)
	if err != nil || size <= 0 {
		return patch, &client.ValidationError{Message: "size must be a positive number"}
	}

	patch.SKU = &sku
	patch.Brand = &brand
	patch.Model = &modelName
	patch.Size = &size
	patch.Color = &color
	patch.Description = &description

	if price := strings.TrimSpace(f.PurchasePrice); price != "" {
		value, err := strconv.ParseFloat(price, 64)
		if err != nil || value <= 0 {
			return patch, &client.ValidationError{Message: "purchase price must be a positive number"}
		}
		patch.PurchasePrice = &value
	}

	return patch, nil
}

// DetailView is the observable state behind a single sneaker's detail screen.
type DetailView struct {
	client  *client.Client
	session *session.Store
	id      int64

	// startEditing makes the view open directly in edit mode once loaded,
	// for edit routes.
	startEditing bool

	Item      *state.Cell[*model.Sneaker]
	Mode      *state.Cell[Mode]
	Form      *state.Cell[EditForm]
	IsSaving  *state.Cell[bool]
	LastError *state.Cell[error]

	// Redirect is set when the item cannot be shown and the caller should
	// navigate back to the list. Not-found and load failure both end here.
	Redirect *state.Cell[bool]
}

// NewDetailView creates a detail view for the sneaker with the given id.
// When editRoute is true the view opens in edit mode after loading.
func NewDetailView(c *client.Client, s *session.Store, id int64, editRoute bool) *DetailView {
	return &DetailView{
		client:       c,
		session:      s,
		id:           id,
		startEditing: editRoute,
		Item:         state.NewCell[*model.Sneaker](nil),
		Mode:         state.NewCell(ModeLoading),
		Form:         state.NewCell(EditForm{}),
		IsSaving:     state.NewCell(false),
		LastError:    state.NewCell[error](nil),
		Redirect:     state.NewCell(false),
	}
}

// Load fetches the current user's items and locates the requested one. A
// missing item and a failed fetch both signal a redirect to the list.
func (v *DetailView) Load(ctx context.Context) {
	user := v.session.CurrentUser()
	if user == nil {
		v.Redirect.Set(true)
		return
	}

	items, err := v.client.ListSneakers(ctx, client.ListFilter{UserID: user.ID})
	if err != nil {
		slog.Error("loading sneaker detail", "id", v.id, "error", err)
		v.Redirect.Set(true)
		return
	}

	for i := range items {
		if items[i].ID == v.id {
			item := items[i]
			v.Item.Set(&item)
			v.Form.Set(formFromSneaker(item))
			if v.startEditing {
				v.Mode.Set(ModeEditing)
			} else {
				v.Mode.Set(ModeViewing)
			}
			return
		}
	}

	v.Redirect.Set(true)
}

// ToggleEdit switches between viewing and editing. Leaving edit mode without
// saving restores the form from the last-loaded item.
func (v *DetailView) ToggleEdit() {
	switch v.Mode.Get() {
	case ModeViewing:
		v.Mode.Set(ModeEditing)
	case ModeEditing:
		if item := v.Item.Get(); item != nil {
			v.Form.Set(formFromSneaker(*item))
		}
		v.Mode.Set(ModeViewing)
	}
}

// Submit saves the edit form. While a save is in flight further submits are
// no-ops. On success the held item is replaced with the server's response and
// the mode returns to viewing.
func (v *DetailView) Submit(ctx context.Context) {
	if v.IsSaving.Get() || v.Mode.Get() != ModeEditing {
		return
	}

	patch, err := v.Form.Get().Patch()
	if err != nil {
		v.LastError.Set(err)
		return
	}

	v.IsSaving.Set(true)
	defer v.IsSaving.Set(false)

	updated, err := v.client.UpdateSneaker(ctx, v.id, patch)
	if err != nil {
		slog.Error("updating sneaker", "id", v.id, "error", err)
		v.LastError.Set(err)
		return
	}

	v.Item.Set(updated)
	v.Form.Set(formFromSneaker(*updated))
	v.Mode.Set(ModeViewing)
	v.LastError.Set(nil)
}
