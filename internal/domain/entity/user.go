// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// User is the identity record shared by drivers, sponsor staff and admins.
type User struct {
	ID          string       `json:"id"`
	Username    string       `json:"username"`
	Role        Role         `json:"role"`
	DisplayName string       `json:"displayName"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone,omitempty"`
	Address     string       `json:"address,omitempty"`
	SponsorID   string       `json:"sponsorId,omitempty"`     // Affiliation; empty until approved into a sponsor.
	Points      *int         `json:"pointsBalance,omitempty"` // Defined only for drivers approved into a sponsor.
	Preferences *Preferences `json:"preferences,omitempty"`
	Active      bool         `json:"active"`
	Dropped     bool         `json:"dropped,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Preferences holds the per-user alert toggles.
type Preferences struct {
	PointsAlerts bool `json:"pointsAlerts"`
	OrderAlerts  bool `json:"orderAlerts"`
	EmailAlerts  bool `json:"emailAlerts"`
}

// HasBalance reports whether the user carries a points balance.
func (u *User) HasBalance() bool {
	return u != nil && u.Points != nil
}

// Balance returns the points balance, or zero when undefined.
func (u *User) Balance() int {
	if !u.HasBalance() {
		return 0
	}

	return *u.Points
}

// WantsPointsAlerts reports whether points notifications should be created for the user.
// Users without stored preferences receive alerts.
func (u *User) WantsPointsAlerts() bool {
	return u.Preferences == nil || u.Preferences.PointsAlerts
}

// WantsOrderAlerts reports whether order notifications should be created for the user.
func (u *User) WantsOrderAlerts() bool {
	return u.Preferences == nil || u.Preferences.OrderAlerts
}
