package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SanderWeide/sneaker-engine/internal/model"
)

func TestLoginSendsFormEncodedCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "ana@example.com", r.PostFormValue("username"))
		assert.Equal(t, "password123", r.PostFormValue("password"))

		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "tok-123",
			"token_type":   "bearer",
		})
	}))
	defer server.Close()

	c := New(server.URL)
	token, err := c.Login(context.Background(), "ana@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestLoginBadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Login(context.Background(), "ana@example.com", "wrong")

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.Status)
	assert.Contains(t, authErr.Message, "invalid credentials")
}

func TestLoginMissingToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token_type": "bearer"})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Login(context.Background(), "ana@example.com", "password123")

	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)
}

func TestRegisterValidationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "email already registered"})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Register(context.Background(), RegisterDraft{
		Email: "taken@example.com", Username: "taken", Password: "password123",
		FirstName: "A", LastName: "B",
	})

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Message, "email already registered")
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]model.Sneaker{})
	}))
	defer server.Close()

	c := New(server.URL)
	c.TokenFunc = func() string { return "tok-123" }
	_, err := c.ListSneakers(context.Background(), ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestListSneakersQueryParams(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]model.Sneaker{})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.ListSneakers(context.Background(), ListFilter{UserID: 7, Brand: "Nike", Limit: 10})
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "user_id=7")
	assert.Contains(t, gotQuery, "brand=Nike")
	assert.Contains(t, gotQuery, "limit=10")
	assert.NotContains(t, gotQuery, "sku")
}

func TestGetSneakerNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "sneaker not found"})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.GetSneaker(context.Background(), 999)

	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestServerErrorIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "internal error"})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Me(context.Background())

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.StatusInternalServerError, netErr.Status)
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	c := New("http://127.0.0.1:1") // nothing listens here
	_, err := c.Me(context.Background())

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Zero(t, netErr.Status)
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(server.URL)
	_, err := c.Me(ctx)
	assert.Error(t, err)
}

func TestUpdateSneakerSendsOnlyProvidedFields(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(model.Sneaker{ID: 1, Color: "blue"})
	}))
	defer server.Close()

	color := "blue"
	c := New(server.URL)
	updated, err := c.UpdateSneaker(context.Background(), 1, model.SneakerPatch{Color: &color})
	require.NoError(t, err)
	assert.Equal(t, "blue", updated.Color)
	assert.Equal(t, map[string]any{"color": "blue"}, gotBody)
}
