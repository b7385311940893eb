// Package constants holds identifiers shared across layers.
package constants

const (
	// PubSubProviderLocal forwards signals to a local HTTP push endpoint.
	PubSubProviderLocal = "local"
	// PubSubProviderGoogle forwards signals to Google Cloud Pub/Sub.
	PubSubProviderGoogle = "google"
)

const (
	// StoreNameMock names the fixture-seeded local dataset.
	StoreNameMock = "mock"
	// StoreNameRemote names the latency-simulated remote dataset.
	StoreNameRemote = "remote"
)

const (
	// IdentityProviderMock names the seed-list identity provider.
	IdentityProviderMock = "mock"
	// IdentityProviderFirebase names the live identity provider.
	IdentityProviderFirebase = "firebase"
)

// Durable storage keys outside the per-dataset namespaces.
const (
	KeyServiceConfig = "settings/service-config"
	KeyMockSession   = "auth/mock-session"
)
