package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestServiceConfig_IsTestMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  ServiceConfig
		want bool
	}{
		{name: "defaults", cfg: DefaultServiceConfig(), want: true},
		{name: "all live", cfg: ServiceConfig{}, want: false},
		{name: "only auth mocked", cfg: ServiceConfig{UseMockAuth: true}, want: true},
		{name: "only db mocked", cfg: ServiceConfig{UseMockDB: true}, want: true},
		{name: "only warehouse mocked", cfg: ServiceConfig{UseMockRedshift: true}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.IsTestMode())
		})
	}
}

func TestServiceConfigPatch_Apply(t *testing.T) {
	off := false
	patched := ServiceConfigPatch{UseMockDB: &off}.Apply(DefaultServiceConfig())

	assert.True(t, patched.UseMockAuth)
	assert.False(t, patched.UseMockDB)
	assert.True(t, patched.UseMockRedshift)
}

func TestSponsor_Floor(t *testing.T) {
	floor := 250

	assert.Equal(t, 0, (*Sponsor)(nil).Floor())
	assert.Equal(t, 0, (&Sponsor{}).Floor())
	assert.Equal(t, 250, (&Sponsor{PointsFloor: &floor}).Floor())
}

func TestProduct_IsNewSince(t *testing.T) {
	now := time.Now()
	p := &Product{CreatedAt: now}

	assert.True(t, p.IsNewSince(now.Add(-time.Hour)))
	assert.False(t, p.IsNewSince(now.Add(time.Hour)))
}

func TestTransaction_RefundPendingApproval(t *testing.T) {
	pending := RefundPending
	refunded := RefundRefunded

	assert.False(t, (&Transaction{}).RefundPendingApproval())
	assert.True(t, (&Transaction{RefundStatus: &pending}).RefundPendingApproval())
	assert.False(t, (&Transaction{RefundStatus: &refunded}).RefundPendingApproval())
}

func TestUser_Balance(t *testing.T) {
	points := 5400

	assert.False(t, (&User{}).HasBalance())
	assert.Equal(t, 0, (&User{}).Balance())
	assert.Equal(t, 5400, (&User{Points: &points}).Balance())
	assert.True(t, (&User{}).WantsPointsAlerts())
	assert.False(t, (&User{Preferences: &Preferences{}}).WantsPointsAlerts())
}

func TestRolesFromStrings(t *testing.T) {
	roles := RolesFromStrings([]string{"DRIVER", "bogus", "ADMIN"})

	assert.Equal(t, Roles{RoleDriver, RoleAdmin}, roles)
	assert.True(t, roles.Contains(RoleAdmin))
	assert.False(t, roles.Contains(RoleSponsor))
}
