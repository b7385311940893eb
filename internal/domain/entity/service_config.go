package entity

// ServiceConfig holds the runtime mock/live switches.
type ServiceConfig struct {
	UseMockAuth     bool `json:"useMockAuth"`
	UseMockDB       bool `json:"useMockDB"`
	UseMockRedshift bool `json:"useMockRedshift"`
}

// DefaultServiceConfig has every mock enabled.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		UseMockAuth:     true,
		UseMockDB:       true,
		UseMockRedshift: true,
	}
}

// IsTestMode reports whether any mock is enabled.
func (c ServiceConfig) IsTestMode() bool {
	return c.UseMockAuth || c.UseMockDB || c.UseMockRedshift
}

// ServiceConfigPatch is a partial update; nil fields are left unchanged.
type ServiceConfigPatch struct {
	UseMockAuth     *bool `json:"useMockAuth,omitempty"`
	UseMockDB       *bool `json:"useMockDB,omitempty"`
	UseMockRedshift *bool `json:"useMockRedshift,omitempty"`
}

// Apply returns c with the non-nil patch fields merged in.
func (p ServiceConfigPatch) Apply(c ServiceConfig) ServiceConfig {
	if p.UseMockAuth != nil {
		c.UseMockAuth = *p.UseMockAuth
	}
	if p.UseMockDB != nil {
		c.UseMockDB = *p.UseMockDB
	}
	if p.UseMockRedshift != nil {
		c.UseMockRedshift = *p.UseMockRedshift
	}

	return c
}
