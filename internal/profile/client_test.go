package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightcart/identity/internal/customer"
	_ "github.com/brightcart/identity/testing"
)

func sampleRequest() customer.ProfileRequest {
	return customer.ProfileRequest{
		UserID:    "id-1",
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
	}
}

func TestCreateProfileSuccess(t *testing.T) {
	var received customer.ProfileRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/profiles", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"succeeded":true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	ok, err := client.CreateProfile(context.Background(), sampleRequest())

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "id-1", received.UserID)
	assert.Equal(t, "jane@example.com", received.Email)
}

func TestCreateProfileRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"succeeded":false}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	ok, err := client.CreateProfile(context.Background(), sampleRequest())

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateProfileServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	ok, err := client.CreateProfile(context.Background(), sampleRequest())

	assert.Error(t, err)
	assert.False(t, ok)
}

func TestCreateProfileTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, time.Second)
	ok, err := client.CreateProfile(context.Background(), sampleRequest())

	assert.Error(t, err)
	assert.False(t, ok)
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	assert.NoError(t, client.Ping(context.Background()))
}
