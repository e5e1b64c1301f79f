package registry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/respondo/internal/common"
	"github.com/ternarybob/respondo/internal/models"
)

func testEurekaConfig(serverURL string) *common.EurekaConfig {
	return &common.EurekaConfig{
		Enabled:          true,
		ServerURL:        serverURL,
		ServiceName:      "rag-service",
		ServiceHost:      "localhost",
		HeartbeatSecs:    30,
		LeaseDurationSec: 90,
		RefreshSecs:      30,
	}
}

func TestRegister(t *testing.T) {
	var gotPath string
	var gotBody map[string]map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(testEurekaConfig(server.URL), 3000, arbor.NewLogger())
	require.NoError(t, client.Register(context.Background(), 3000))

	assert.Equal(t, "/apps/RAG-SERVICE", gotPath)

	inst := gotBody["instance"]
	assert.Equal(t, "localhost:rag-service:3000", inst["instanceId"])
	assert.Equal(t, "UP", inst["status"])
	assert.Equal(t, "RAG-SERVICE", inst["app"])

	port := inst["port"].(map[string]interface{})
	assert.Equal(t, float64(3000), port["$"])
	assert.Equal(t, "true", port["@enabled"])

	lease := inst["leaseInfo"].(map[string]interface{})
	assert.Equal(t, float64(30), lease["renewalIntervalInSecs"])
	assert.Equal(t, float64(90), lease["durationInSecs"])
}

func TestHeartbeat_NotRegistered(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(testEurekaConfig(server.URL), 3000, arbor.NewLogger())
	err := client.Heartbeat(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDiscovery))
}

func TestServiceURL_RoundRobin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/apps/TICKET-SERVICE", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"application": map[string]interface{}{
				"name": "TICKET-SERVICE",
				"instance": []map[string]interface{}{
					{"instanceId": "a", "hostName": "host-a", "status": "UP", "port": map[string]interface{}{"$": 8081, "@enabled": "true"}},
					{"instanceId": "b", "hostName": "host-b", "status": "DOWN", "port": map[string]interface{}{"$": 8082, "@enabled": "true"}},
					{"instanceId": "c", "hostName": "host-c", "status": "UP", "port": map[string]interface{}{"$": 8083, "@enabled": "true"}},
				},
			},
		})
	}))
	defer server.Close()

	client := NewClient(testEurekaConfig(server.URL), 3000, arbor.NewLogger())

	first, err := client.ServiceURL("ticket-service")
	require.NoError(t, err)
	second, err := client.ServiceURL("ticket-service")
	require.NoError(t, err)
	third, err := client.ServiceURL("ticket-service")
	require.NoError(t, err)

	// DOWN instance is skipped and selection wraps around.
	assert.Equal(t, "http://host-a:8081", first)
	assert.Equal(t, "http://host-c:8083", second)
	assert.Equal(t, "http://host-a:8081", third)
}

func TestServiceURL_NoUpInstances(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"application": map[string]interface{}{
				"name": "TICKET-SERVICE",
				"instance": []map[string]interface{}{
					{"instanceId": "a", "hostName": "host-a", "status": "DOWN", "port": map[string]interface{}{"$": 8081, "@enabled": "true"}},
				},
			},
		})
	}))
	defer server.Close()

	client := NewClient(testEurekaConfig(server.URL), 3000, arbor.NewLogger())
	_, err := client.ServiceURL("ticket-service")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDiscovery))
}

func TestServiceURL_UnknownService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(testEurekaConfig(server.URL), 3000, arbor.NewLogger())
	_, err := client.ServiceURL("missing-service")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrDiscovery))
}
