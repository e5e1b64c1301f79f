package interfaces

// ServiceResolver looks up peer service locations from the service registry.
// Implementations round-robin among instances reporting UP.
type ServiceResolver interface {
	// ServiceURL returns a base URL ("http://host:port") for a healthy
	// instance of the named service, or ErrDiscovery when none exists.
	ServiceURL(serviceName string) (string, error)
}
