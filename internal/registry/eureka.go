// Package registry provides a Eureka client for service registration,
// heartbeat renewal, and client-side discovery with round-robin selection.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/respondo/internal/common"
	"github.com/ternarybob/respondo/internal/interfaces"
	"github.com/ternarybob/respondo/internal/models"
)

// instance is the wire form of a Eureka instance record.
type instance struct {
	InstanceID       string            `json:"instanceId"`
	HostName         string            `json:"hostName"`
	App              string            `json:"app"`
	IPAddr           string            `json:"ipAddr"`
	Status           string            `json:"status"`
	Port             portWrapper       `json:"port"`
	VIPAddress       string            `json:"vipAddress"`
	SecureVIPAddress string            `json:"secureVipAddress"`
	HomePageURL      string            `json:"homePageUrl"`
	StatusPageURL    string            `json:"statusPageUrl"`
	HealthCheckURL   string            `json:"healthCheckUrl"`
	DataCenterInfo   dataCenterInfo    `json:"dataCenterInfo"`
	LeaseInfo        *leaseInfo        `json:"leaseInfo,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

type portWrapper struct {
	Port    int    `json:"$"`
	Enabled string `json:"@enabled"`
}

type dataCenterInfo struct {
	Class string `json:"@class"`
	Name  string `json:"name"`
}

type leaseInfo struct {
	RenewalIntervalInSecs int `json:"renewalIntervalInSecs"`
	DurationInSecs        int `json:"durationInSecs"`
}

// application mirrors the GET /apps/{APP} response envelope.
type application struct {
	Application struct {
		Name      string     `json:"name"`
		Instances []instance `json:"instance"`
	} `json:"application"`
}

// Client registers this service with a Eureka server, keeps the lease alive,
// and resolves other services by application name.
type Client struct {
	config     *common.EurekaConfig
	appName    string
	instanceID string
	client     *http.Client
	logger     arbor.ILogger

	mu      sync.Mutex
	counter map[string]int
	cache   map[string][]instance
}

// Compile-time interface assertion
var _ interfaces.ServiceResolver = (*Client)(nil)

// NewClient creates a Eureka client for the given service identity.
func NewClient(cfg *common.EurekaConfig, port int, logger arbor.ILogger) *Client {
	host := cfg.ServiceHost
	if host == "" {
		host = "localhost"
	}

	return &Client{
		config:     cfg,
		appName:    strings.ToUpper(cfg.ServiceName),
		instanceID: fmt.Sprintf("%s:%s:%d", host, cfg.ServiceName, port),
		client:     &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
		counter:    make(map[string]int),
		cache:      make(map[string][]instance),
	}
}

// Register announces this instance to the Eureka server with status UP.
func (c *Client) Register(ctx context.Context, port int) error {
	host := c.config.ServiceHost
	if host == "" {
		host = "localhost"
	}
	base := fmt.Sprintf("http://%s:%d", host, port)

	payload := map[string]instance{
		"instance": {
			InstanceID:       c.instanceID,
			HostName:         host,
			App:              c.appName,
			IPAddr:           host,
			Status:           "UP",
			Port:             portWrapper{Port: port, Enabled: "true"},
			VIPAddress:       c.config.ServiceName,
			SecureVIPAddress: c.config.ServiceName,
			HomePageURL:      base,
			StatusPageURL:    base + "/health",
			HealthCheckURL:   base + "/health",
			DataCenterInfo: dataCenterInfo{
				Class: "com.netflix.appinfo.InstanceInfo$DefaultDataCenterInfo",
				Name:  "MyOwn",
			},
			LeaseInfo: &leaseInfo{
				RenewalIntervalInSecs: c.config.HeartbeatSecs,
				DurationInSecs:        c.config.LeaseDurationSec,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal registration: %w", err)
	}

	url := fmt.Sprintf("%s/apps/%s", c.config.ServerURL, c.appName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create registration request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: registration failed: %v", models.ErrDiscovery, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: registration returned status %d", models.ErrDiscovery, resp.StatusCode)
	}

	c.logger.Info().
		Str("app", c.appName).
		Str("instance", c.instanceID).
		Msg("Registered with Eureka")

	return nil
}

// Heartbeat renews the instance lease. A 404 means the server no longer
// knows this instance and re-registration is required.
func (c *Client) Heartbeat(ctx context.Context) error {
	url := fmt.Sprintf("%s/apps/%s/%s", c.config.ServerURL, c.appName, c.instanceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create heartbeat request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: heartbeat failed: %v", models.ErrDiscovery, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: instance not registered", models.ErrDiscovery)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: heartbeat returned status %d", models.ErrDiscovery, resp.StatusCode)
	}

	return nil
}

// Deregister removes the instance from the registry. Called on shutdown
// before the HTTP server stops accepting connections.
func (c *Client) Deregister(ctx context.Context) error {
	url := fmt.Sprintf("%s/apps/%s/%s", c.config.ServerURL, c.appName, c.instanceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create deregistration request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: deregistration failed: %v", models.ErrDiscovery, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	c.logger.Info().
		Str("instance", c.instanceID).
		Int("status", resp.StatusCode).
		Msg("Deregistered from Eureka")

	return nil
}

// Start registers the instance and runs heartbeat and registry refresh loops
// until ctx is cancelled. Registration failures are retried on the heartbeat
// interval rather than aborting startup.
func (c *Client) Start(ctx context.Context, port int) {
	registered := false
	if err := c.Register(ctx, port); err != nil {
		c.logger.Warn().Err(err).Msg("Initial Eureka registration failed, will retry")
	} else {
		registered = true
	}

	heartbeat := time.NewTicker(time.Duration(c.config.HeartbeatSecs) * time.Second)
	refresh := time.NewTicker(time.Duration(c.config.RefreshSecs) * time.Second)
	defer heartbeat.Stop()
	defer refresh.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			if !registered {
				if err := c.Register(ctx, port); err != nil {
					c.logger.Warn().Err(err).Msg("Eureka registration retry failed")
					continue
				}
				registered = true
				continue
			}
			if err := c.Heartbeat(ctx); err != nil {
				c.logger.Warn().Err(err).Msg("Eureka heartbeat failed")
				registered = false
			}
		case <-refresh.C:
			c.mu.Lock()
			apps := make([]string, 0, len(c.cache))
			for app := range c.cache {
				apps = append(apps, app)
			}
			c.mu.Unlock()
			for _, app := range apps {
				if _, err := c.fetchInstances(ctx, app); err != nil {
					c.logger.Warn().Err(err).Str("app", app).Msg("Registry refresh failed")
				}
			}
		}
	}
}

// ServiceURL resolves a base URL for the named service, rotating round-robin
// over instances with status UP.
func (c *Client) ServiceURL(serviceName string) (string, error) {
	app := strings.ToUpper(serviceName)

	c.mu.Lock()
	instances := c.cache[app]
	c.mu.Unlock()

	if len(instances) == 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		fetched, err := c.fetchInstances(ctx, app)
		if err != nil {
			return "", err
		}
		instances = fetched
	}

	up := make([]instance, 0, len(instances))
	for _, inst := range instances {
		if inst.Status == "UP" {
			up = append(up, inst)
		}
	}
	if len(up) == 0 {
		return "", fmt.Errorf("%w: no UP instances of service '%s'", models.ErrDiscovery, serviceName)
	}

	c.mu.Lock()
	idx := c.counter[app] % len(up)
	c.counter[app]++
	c.mu.Unlock()

	chosen := up[idx]
	return fmt.Sprintf("http://%s:%d", chosen.HostName, chosen.Port.Port), nil
}

// fetchInstances queries the registry for all instances of an application
// and refreshes the local cache.
func (c *Client) fetchInstances(ctx context.Context, app string) ([]instance, error) {
	url := fmt.Sprintf("%s/apps/%s", c.config.ServerURL, app)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: registry lookup failed: %v", models.ErrDiscovery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: service '%s' not found in registry", models.ErrDiscovery, app)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: registry lookup returned status %d", models.ErrDiscovery, resp.StatusCode)
	}

	var payload application
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode registry response: %v", models.ErrDiscovery, err)
	}

	instances := payload.Application.Instances

	c.mu.Lock()
	c.cache[app] = instances
	c.mu.Unlock()

	c.logger.Debug().
		Str("app", app).
		Int("instances", len(instances)).
		Msg("Refreshed service instances")

	return instances, nil
}
