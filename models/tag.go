package models

import "strings"

// Tag is a reusable free-text label. UsageCount increments once per newly
// created party association and never decrements; orphan tags are tolerated.
type Tag struct {
	BaseModel
	Name       string `gorm:"type:varchar(100);not null" json:"name"`
	Slug       string `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	UsageCount int    `gorm:"not null;default:0" json:"usageCount"`
}

// PartyTag maps the many2many join table so associations can be created
// idempotently and removed by the cascade delete.
type PartyTag struct {
	PartyID uint `gorm:"primaryKey"`
	TagID   uint `gorm:"primaryKey"`
}

func (PartyTag) TableName() string { return "party_tags" }

// Slugify normalizes a display name into its unique slug: lower-cased,
// runs of whitespace replaced with single hyphens.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), "-")
}
