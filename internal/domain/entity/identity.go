package entity

// Identity is the authenticated principal reported by an identity provider.
// It carries only what the session marker needs, never the full profile.
type Identity struct {
	UID         string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	Provider    string `json:"provider,omitempty"` // "password", "google" or "signup".
}

// Session pairs the signed-in identity with its resolved profile and access token.
type Session struct {
	Identity    *Identity `json:"identity"`
	Profile     *User     `json:"profile,omitempty"`
	AccessToken string    `json:"accessToken,omitempty"`
}
