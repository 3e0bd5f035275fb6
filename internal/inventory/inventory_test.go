package inventory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SanderWeide/sneaker-engine/internal/client"
	"github.com/SanderWeide/sneaker-engine/internal/kv"
	"github.com/SanderWeide/sneaker-engine/internal/model"
	"github.com/SanderWeide/sneaker-engine/internal/session"
)

// fakeAPI is an in-memory stand-in for the server, tracking call counts so
// tests can assert on issued requests.
type fakeAPI struct {
	mu      sync.Mutex
	items   []model.Sneaker
	nextID  int64
	creates int
	lists   int
	updates int
	failing bool
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok", "token_type": "bearer"})
	})
	mux.HandleFunc("GET /api/users/me", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.User{ID: 1, Email: "ana@example.com", Username: "ana"})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	})

	mux.HandleFunc("GET /api/sneakers", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.lists++
		if f.failing {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "internal error"})
			return
		}
		json.NewEncoder(w).Encode(f.items)
	})
	mux.HandleFunc("POST /api/sneakers", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.creates++
		if f.failing {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "internal error"})
			return
		}
		var draft model.SneakerDraft
		json.NewDecoder(r.Body).Decode(&draft)
		f.nextID++
		sneaker := model.Sneaker{
			ID: f.nextID, SKU: draft.SKU, Brand: draft.Brand, Model: draft.Model,
			Size: draft.Size, Color: draft.Color, PurchasePrice: draft.PurchasePrice,
			Description: draft.Description, UserID: 1,
		}
		f.items = append(f.items, sneaker)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(sneaker)
	})
	mux.HandleFunc("PUT /api/sneakers/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.updates++
		if f.failing {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "internal error"})
			return
		}
		var patch model.SneakerPatch
		json.NewDecoder(r.Body).Decode(&patch)
		for i := range f.items {
			if r.PathValue("id") == strconv.FormatInt(f.items[i].ID, 10) {
				if patch.Color != nil {
					f.items[i].Color = *patch.Color
				}
				if patch.Brand != nil {
					f.items[i].Brand = *patch.Brand
				}
				if patch.Model != nil {
					f.items[i].Model = *patch.Model
				}
				if patch.SKU != nil {
					f.items[i].SKU = *patch.SKU
				}
				if patch.Size != nil {
					f.items[i].Size = *patch.Size
				}
				json.NewEncoder(w).Encode(f.items[i])
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "sneaker not found"})
	})

	return mux
}

func (f *fakeAPI) seed(items ...model.Sneaker) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, items...)
	for _, item := range items {
		if item.ID > f.nextID {
			f.nextID = item.ID
		}
	}
}

func newTestEnv(t *testing.T) (*fakeAPI, *client.Client, *session.Store) {
	t.Helper()
	api := &fakeAPI{}
	server := httptest.NewServer(api.handler())
	t.Cleanup(server.Close)

	c := client.New(server.URL)
	s := session.NewStore(c, kv.NewMemory())
	_, err := s.Login(context.Background(), "ana@example.com", "password123")
	require.NoError(t, err)
	return api, c, s
}

func sneaker(id int64, sku, brand, modelName string, size float64, color string) model.Sneaker {
	return model.Sneaker{ID: id, SKU: sku, Brand: brand, Model: modelName, Size: size, Color: color, UserID: 1}
}

func TestEmptyFiltersAreIdentity(t *testing.T) {
	api, c, s := newTestEnv(t)
	api.seed(
		sneaker(1, "NK-001", "Nike", "Air Max", 42, "Red"),
		sneaker(2, "AD-001", "Adidas", "Samba", 43, "Black"),
	)

	v := NewListView(c, s)
	v.Load(context.Background())

	assert.Equal(t, v.Items.Get(), v.FilteredItems())
	assert.Len(t, v.FilteredItems(), 2)
}

func TestAvailableBrandsSortedDistinct(t *testing.T) {
	api, c, s := newTestEnv(t)
	api.seed(
		sneaker(1, "A", "Puma", "Suede", 42, ""),
		sneaker(2, "B", "Adidas", "Samba", 42, ""),
		sneaker(3, "C", "Nike", "Dunk", 42, ""),
		sneaker(4, "D", "Adidas", "Gazelle", 43, ""),
	)

	v := NewListView(c, s)
	v.Load(context.Background())

	assert.Equal(t, []string{"Adidas", "Nike", "Puma"}, v.AvailableBrands())
}

func TestAvailableSizesNumericOrder(t *testing.T) {
	api, c, s := newTestEnv(t)
	api.seed(
		sneaker(1, "A", "Nike", "Dunk", 9, ""),
		sneaker(2, "B", "Nike", "Dunk", 10, ""),
		sneaker(3, "C", "Nike", "Dunk", 8.5, ""),
	)

	v := NewListView(c, s)
	v.Load(context.Background())

	// Numeric, not lexical: lexical order would be 10, 8.5, 9.
	assert.Equal(t, []string{"8.5", "9", "10"}, v.AvailableSizes())
}

func TestSearchMatchesAnyOfFourFieldsCaseInsensitive(t *testing.T) {
	api, c, s := newTestEnv(t)
	api.seed(sneaker(1, "NK-001", "Nike", "Air Max", 42, "Red"))

	v := NewListView(c, s)
	v.Load(context.Background())

	for _, query := range []string{"red", "RED", "nk-0", "air", "nike"} {
		v.SetSearchText(query)
		assert.Len(t, v.FilteredItems(), 1, "query %q should match", query)
	}

	v.SetSearchText("jordan")
	assert.Empty(t, v.FilteredItems())
}

func TestFiltersComposeWithAnd(t *testing.T) {
	api, c, s := newTestEnv(t)
	api.seed(
		sneaker(1, "NK-001", "Nike", "Air Max", 42, "Red"),
		sneaker(2, "NK-002", "Nike", "Dunk", 43, "Red"),
		sneaker(3, "AD-001", "Adidas", "Samba", 42, "Red"),
	)

	v := NewListView(c, s)
	v.Load(context.Background())

	v.SetSearchText("red")
	v.SetBrand("Nike")
	v.SetSize("42")

	filtered := v.FilteredItems()
	require.Len(t, filtered, 1)
	assert.Equal(t, "NK-001", filtered[0].SKU)
}

func TestEmptyCollectionWithFilters(t *testing.T) {
	_, c, s := newTestEnv(t)

	v := NewListView(c, s)
	v.Load(context.Background())

	v.SetBrand("Nike")
	assert.Empty(t, v.FilteredItems())
	assert.Empty(t, v.AvailableBrands())

	// A filter value absent from the facets still yields an empty list.
	v.SetBrand("NotARealBrand")
	assert.Empty(t, v.FilteredItems())
}

func TestClearFiltersResetsAllThree(t *testing.T) {
	_, c, s := newTestEnv(t)

	v := NewListView(c, s)
	v.SetSearchText("air")
	v.SetBrand("Nike")
	v.SetSize("42")

	v.ClearFilters()

	assert.Equal(t, FilterCriteria{}, v.Filters.Get())
}

func TestClearFiltersIsOneUpdate(t *testing.T) {
	_, c, s := newTestEnv(t)

	v := NewListView(c, s)
	v.SetSearchText("air")
	v.SetBrand("Nike")
	v.SetSize("42")

	// A subscriber must never observe a half-cleared filter state.
	var updates []FilterCriteria
	v.Filters.Subscribe(func(f FilterCriteria) {
		updates = append(updates, f)
	})

	v.ClearFilters()

	require.Len(t, updates, 1)
	assert.Equal(t, FilterCriteria{}, updates[0])
}

func TestCreateRoundTripNoDuplication(t *testing.T) {
	api, c, s := newTestEnv(t)

	v := NewListView(c, s)
	v.Load(context.Background())

	v.Form.Set(CreateForm{SKU: "NK-001", Brand: "Nike", Model: "Air Max", Size: "42"})
	v.Submit(context.Background())

	require.Len(t, v.Items.Get(), 1, "submit appends once")
	assert.Equal(t, CreateForm{}, v.Form.Get(), "form resets on success")

	// Reloading must not duplicate the optimistic append.
	v.Load(context.Background())
	assert.Len(t, v.Items.Get(), 1)
	assert.Equal(t, 1, api.creates)
}

func TestSubmitGuardedWhileLoading(t *testing.T) {
	api, c, s := newTestEnv(t)

	v := NewListView(c, s)
	v.Form.Set(CreateForm{SKU: "NK-001", Brand: "Nike", Model: "Air Max", Size: "42"})

	v.IsLoading.Set(true)
	v.Submit(context.Background())

	assert.Equal(t, 0, api.creates, "no network call while busy")
	assert.Len(t, v.Items.Get(), 0)
}

func TestSubmitInvalidFormIsLocalError(t *testing.T) {
	api, c, s := newTestEnv(t)

	v := NewListView(c, s)
	v.Form.Set(CreateForm{SKU: "NK-001", Brand: "Nike", Model: "Air Max", Size: "not-a-number"})
	v.Submit(context.Background())

	assert.Equal(t, 0, api.creates)
	var valErr *client.ValidationError
	assert.ErrorAs(t, v.LastError.Get(), &valErr)
}

func TestSubmitFailureKeepsForm(t *testing.T) {
	api, c, s := newTestEnv(t)

	form := CreateForm{SKU: "NK-001", Brand: "Nike", Model: "Air Max", Size: "42"}
	v := NewListView(c, s)
	v.Form.Set(form)

	api.failing = true
	v.Submit(context.Background())

	assert.Equal(t, form, v.Form.Get(), "form preserved for correction")
	assert.False(t, v.IsLoading.Get(), "form re-enabled")
	assert.Error(t, v.LastError.Get())
}

func TestLoadFailureKeepsPriorItems(t *testing.T) {
	api, c, s := newTestEnv(t)
	api.seed(sneaker(1, "NK-001", "Nike", "Air Max", 42, "Red"))

	v := NewListView(c, s)
	v.Load(context.Background())
	require.Len(t, v.Items.Get(), 1)

	api.failing = true
	v.Load(context.Background())

	assert.Len(t, v.Items.Get(), 1, "prior items intact")
	var netErr *client.NetworkError
	assert.ErrorAs(t, v.LastError.Get(), &netErr)

	// A later successful load clears the error.
	api.failing = false
	v.Load(context.Background())
	assert.NoError(t, v.LastError.Get())
}

func TestLoadRequiresUser(t *testing.T) {
	api, c, s := newTestEnv(t)
	require.NoError(t, s.Logout(context.Background()))
	before := api.lists

	v := NewListView(c, s)
	v.Load(context.Background())

	assert.Equal(t, before, api.lists, "no fetch without a user")
	var authErr *client.AuthError
	assert.ErrorAs(t, v.LastError.Get(), &authErr)
}

func TestDetailLoadLocatesItem(t *testing.T) {
	api, c, s := newTestEnv(t)
	api.seed(
		sneaker(1, "NK-001", "Nike", "Air Max", 42, "Red"),
		sneaker(2, "AD-001", "Adidas", "Samba", 43, "Black"),
	)

	v := NewDetailView(c, s, 2, false)
	assert.Equal(t, ModeLoading, v.Mode.Get())

	v.Load(context.Background())

	assert.Equal(t, ModeViewing, v.Mode.Get())
	require.NotNil(t, v.Item.Get())
	assert.Equal(t, "AD-001", v.Item.Get().SKU)
	assert.Equal(t, "Samba", v.Form.Get().Model)
	assert.False(t, v.Redirect.Get())
}

func TestDetailNotFoundRedirects(t *testing.T) {
	api, c, s := newTestEnv(t)
	api.seed(sneaker(1, "NK-001", "Nike", "Air Max", 42, "Red"))

	v := NewDetailView(c, s, 99, false)
	v.Load(context.Background())

	assert.True(t, v.Redirect.Get())
	assert.Nil(t, v.Item.Get())
}

func TestDetailLoadFailureRedirects(t *testing.T) {
	api, c, s := newTestEnv(t)
	api.seed(sneaker(1, "NK-001", "Nike", "Air Max", 42, "Red"))
	api.failing = true

	v := NewDetailView(c, s, 1, false)
	v.Load(context.Background())

	assert.True(t, v.Redirect.Get())
}

func TestDetailEditRouteStartsEditing(t *testing.T) {
	api, c, s := newTestEnv(t)
	api.seed(sneaker(1, "NK-001", "Nike", "Air Max", 42, "Red"))

	v := NewDetailView(c, s, 1, true)
	v.Load(context.Background())

	assert.Equal(t, ModeEditing, v.Mode.Get())
}

func TestDetailToggleEditDiscardsUnsavedEdits(t *testing.T) {
	api, c, s := newTestEnv(t)
	api.seed(sneaker(1, "NK-001", "Nike", "Air Max", 42, "Red"))

	v := NewDetailView(c, s, 1, false)
	v.Load(context.Background())

	v.ToggleEdit()
	assert.Equal(t, ModeEditing, v.Mode.Get())

	form := v.Form.Get()
	form.Color = "Green"
	v.Form.Set(form)

	v.ToggleEdit()
	assert.Equal(t, ModeViewing, v.Mode.Get())
	assert.Equal(t, "Red", v.Form.Get().Color, "unsaved edit discarded")
}

func TestDetailSubmitSavesAndForcesViewing(t *testing.T) {
	api, c, s := newTestEnv(t)
	api.seed(sneaker(1, "NK-001", "Nike", "Air Max", 42, "Red"))

	v := NewDetailView(c, s, 1, true)
	v.Load(context.Background())

	form := v.Form.Get()
	form.Color = "Blue"
	v.Form.Set(form)
	v.Submit(context.Background())

	assert.Equal(t, ModeViewing, v.Mode.Get())
	require.NotNil(t, v.Item.Get())
	assert.Equal(t, "Blue", v.Item.Get().Color)
	assert.Equal(t, 1, api.updates)
}

func TestDetailSubmitGuardedWhileSaving(t *testing.T) {
	api, c, s := newTestEnv(t)
	api.seed(sneaker(1, "NK-001", "Nike", "Air Max", 42, "Red"))

	v := NewDetailView(c, s, 1, true)
	v.Load(context.Background())

	v.IsSaving.Set(true)
	v.Submit(context.Background())

	assert.Equal(t, 0, api.updates)
}

func TestDetailSubmitFailureStaysEditing(t *testing.T) {
	api, c, s := newTestEnv(t)
	api.seed(sneaker(1, "NK-001", "Nike", "Air Max", 42, "Red"))

	v := NewDetailView(c, s, 1, true)
	v.Load(context.Background())

	api.failing = true
	v.Submit(context.Background())

	assert.Equal(t, ModeEditing, v.Mode.Get())
	assert.False(t, v.IsSaving.Get(), "form re-enabled")
	assert.Error(t, v.LastError.Get())
}
