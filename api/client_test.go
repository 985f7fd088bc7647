package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobiusaolo/Cariya-wallet/models"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.Handler, tokens TokenSource) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := New(Config{BaseURL: srv.URL, Tokens: tokens})
	require.NoError(t, err)
	return client
}

func TestNewValidatesBaseURL(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)

	_, err = New(Config{BaseURL: "not a url"})
	assert.Error(t, err)

	_, err = New(Config{BaseURL: "ftp://example.com"})
	assert.Error(t, err)

	_, err = New(Config{BaseURL: "http://localhost:8000/"})
	assert.NoError(t, err)
}

func TestLoginSendsPayloadAndDecodes(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "+256700123456", req.MobileNumber)

		json.NewEncoder(w).Encode(models.LoginResponse{Token: "tok", UserID: "user-1"})
	}), nil)

	resp, err := client.Login(context.Background(), models.LoginRequest{
		MobileNumber: "+256700123456",
		Password:     "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "user-1", resp.UserID)
}

func TestAuthenticatedCallsCarryBearerToken(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-9", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(models.AccountSnapshot{FirstName: "Amina"})
	}), staticToken("tok-9"))

	snap, err := client.GetUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Amina", snap.FirstName)
}

func TestErrorResponseCarriesServerDetail(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "No user found with unique identifier user-1"})
	}), nil)

	_, err := client.GetUser(context.Background(), "user-1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "No user found with unique identifier user-1", apiErr.Detail)
	assert.Equal(t, "No user found with unique identifier user-1", apiErr.UserMessage())
}

func TestErrorResponseGenericFallback(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>boom</html>"))
	}), nil)

	_, err := client.DonorView(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Empty(t, apiErr.Detail)
	assert.Equal(t, "Request failed. Please try again.", apiErr.UserMessage())
}

func TestPathsAreEscaped(t *testing.T) {
	var gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte("{}"))
	}), nil)

	_, err := client.GetCompliance(context.Background(), "user/../1")
	require.NoError(t, err)
	assert.Equal(t, "/users/user%2F..%2F1/compliance", gotPath)
}

func TestContextCancellationPropagates(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.GetUser(ctx, "user-1")
	assert.Error(t, err)
}

func TestDonorViewDecodesList(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/donor-view", r.URL.Path)
		json.NewEncoder(w).Encode(models.DonorView{DonorView: []models.DonorSummary{
			{UserID: "u1", FirstName: "Amina", TotalSavings: 120},
			{UserID: "u2", FirstName: "Joseph", TotalSavings: 80},
		}})
	}), nil)

	view, err := client.DonorView(context.Background())
	require.NoError(t, err)
	require.Len(t, view.DonorView, 2)
	assert.Equal(t, "Amina", view.DonorView[0].FirstName)
}
