package entity

import "time"

// AuditCategory groups audit entries for filtering.
type AuditCategory string

const (
	AuditCategoryPoints      AuditCategory = "POINTS"
	AuditCategoryApplication AuditCategory = "APPLICATION"
	AuditCategoryUser        AuditCategory = "USER"
	AuditCategoryCatalog     AuditCategory = "CATALOG"
	AuditCategorySponsor     AuditCategory = "SPONSOR"
	AuditCategorySettings    AuditCategory = "SETTINGS"
)

// AuditLog is an append-only record of an administrative action.
type AuditLog struct {
	ID       string        `json:"id"`
	Date     time.Time     `json:"date"`
	Actor    string        `json:"actor"`
	Target   string        `json:"target"`
	Action   string        `json:"action"`
	Category AuditCategory `json:"category"`
	Details  string        `json:"details,omitempty"`
}
