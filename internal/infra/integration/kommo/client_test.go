package kommo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/resilience"
)

func testLead() *entity.Lead {
	return &entity.Lead{
		ID:            "lead-1",
		Name:          "Ana",
		Email:         "ana@x.com",
		Qualification: entity.QualificationHot,
	}
}

func TestSyncLead_CreatesContactAndLead(t *testing.T) {
	var leadBody []leadRequest
	var calls []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/contacts":
			assert.Equal(t, "ana@x.com", r.URL.Query().Get("query"))
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodPost && r.URL.Path == "/contacts":
			w.Write([]byte(`{"_embedded":{"contacts":[{"id":77}]}}`))
		case r.Method == http.MethodPost && r.URL.Path == "/leads":
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &leadBody))
			w.Write([]byte(`{"_embedded":{"leads":[{"id":501}]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewClient(Config{Token: "secret", BaseURL: srv.URL, StatusID: 42})
	require.NoError(t, client.SyncLead(context.Background(), testLead()))

	assert.Equal(t, []string{"GET /contacts", "POST /contacts", "POST /leads"}, calls)
	require.Len(t, leadBody, 1)
	assert.Equal(t, "Ana", leadBody[0].Name)
	assert.Equal(t, 42, leadBody[0].StatusID)
	assert.Equal(t, []contactRef{{ID: 77}}, leadBody[0].Embedded.Contacts)
	assert.Contains(t, leadBody[0].Embedded.Tags, tag{Name: "HOT"})
}

func TestSyncLead_ReusesExistingContact(t *testing.T) {
	var created bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			w.Write([]byte(`{"_embedded":{"contacts":[{"id":5}]}}`))
		case r.URL.Path == "/contacts":
			created = true
		case r.URL.Path == "/leads":
			w.Write([]byte(`{"_embedded":{"leads":[{"id":1}]}}`))
		}
	}))
	defer srv.Close()

	client := NewClient(Config{Token: "t", BaseURL: srv.URL})
	require.NoError(t, client.SyncLead(context.Background(), testLead()))
	assert.False(t, created)
}

func TestSyncLead_ServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(Config{Token: "t", BaseURL: srv.URL})
	err := client.SyncLead(context.Background(), testLead())
	require.Error(t, err)
	assert.True(t, resilience.IsTransient(err))
}

func TestSyncLead_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(Config{Token: "bad", BaseURL: srv.URL})
	err := client.SyncLead(context.Background(), testLead())
	require.Error(t, err)
	assert.False(t, resilience.IsTransient(err))
	assert.Contains(t, err.Error(), "401")
}
