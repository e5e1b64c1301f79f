package tickets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/respondo/internal/common"
	"github.com/ternarybob/respondo/internal/models"
)

type staticResolver struct {
	url string
	err error
}

func (s staticResolver) ServiceURL(_ string) (string, error) {
	return s.url, s.err
}

func TestUpdateStatus(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody models.TicketUpdate

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := &common.TicketsConfig{ServiceName: "ticket-service", Timeout: "30s"}
	client := NewClient(staticResolver{url: server.URL}, cfg, arbor.NewLogger())

	update := models.TicketUpdate{
		Status:     models.TicketStatusResolved,
		Answer:     "done",
		ResolvedBy: models.ResolvedByRAG,
	}
	require.NoError(t, client.UpdateStatus(context.Background(), "t-1", update))

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/tickets/t-1", gotPath)
	assert.Equal(t, models.TicketStatusResolved, gotBody.Status)
	assert.Equal(t, "done", gotBody.Answer)
	assert.Equal(t, models.ResolvedByRAG, gotBody.ResolvedBy)
}

func TestUpdateStatus_ResolverFailure(t *testing.T) {
	cfg := &common.TicketsConfig{ServiceName: "ticket-service", Timeout: "30s"}
	client := NewClient(staticResolver{err: models.ErrDiscovery}, cfg, arbor.NewLogger())

	err := client.UpdateStatus(context.Background(), "t-1", models.TicketUpdate{Status: models.TicketStatusInProgress})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDiscovery)
}

func TestUpdateStatus_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := &common.TicketsConfig{ServiceName: "ticket-service", Timeout: "30s"}
	client := NewClient(staticResolver{url: server.URL}, cfg, arbor.NewLogger())

	err := client.UpdateStatus(context.Background(), "t-1", models.TicketUpdate{Status: models.TicketStatusInProgress})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}
