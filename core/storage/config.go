package storage

// DefaultEndpointTemplate is the R2 endpoint pattern. The {account_id}
// placeholder is replaced with the remote tenant identifier.
const DefaultEndpointTemplate = "https://{account_id}.r2.cloudflarestorage.com"

// DefaultRegion is the synthetic region sent to services without region routing.
const DefaultRegion = "auto"

// Config holds configuration for the storage provider.
type Config struct {
	// EndpointTemplate is the URL pattern of the storage service. A scheme in
	// the template takes precedence over UseSSL.
	EndpointTemplate string `mapstructure:"endpoint_template" default:"https://{account_id}.r2.cloudflarestorage.com"`
	// Region is the signing region. R2 accepts "auto".
	Region string `mapstructure:"region" default:"auto"`
	// UseSSL indicates whether to use TLS when the template carries no scheme.
	UseSSL bool `mapstructure:"use_ssl" default:"true"`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// CacheClients keeps one client per account instead of building one per call.
	CacheClients bool `mapstructure:"cache_clients" default:"false"`
}

// DefaultConfig returns the configuration used when none is loaded.
func DefaultConfig() Config {
	return Config{
		EndpointTemplate: DefaultEndpointTemplate,
		Region:           DefaultRegion,
		UseSSL:           true,
		TimeoutSeconds:   30,
	}
}

// Credentials binds a client to one storage tenant.
type Credentials struct {
	// AccountID is the remote tenant identifier used to derive the endpoint.
	AccountID string
	// AccessKeyID is the public credential component.
	AccessKeyID string
	// SecretAccessKey is the private credential component.
	SecretAccessKey string
}
