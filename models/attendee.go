package models

import "time"

type AttendeeRole string

const (
	AttendeeRoleHost  AttendeeRole = "host"
	AttendeeRoleGuest AttendeeRole = "guest"
)

// Attendee links a user to a party. Unique per (party, user); exactly one
// host row exists per party, created in the same transaction as the party.
type Attendee struct {
	BaseModel
	PartyID  uint         `gorm:"not null;index:idx_attendees_party_user,unique" json:"partyId"`
	UserID   uint         `gorm:"not null;index:idx_attendees_party_user,unique" json:"userId"`
	Role     AttendeeRole `gorm:"type:varchar(10);not null;default:'guest'" json:"role"`
	JoinedAt time.Time    `gorm:"not null;index" json:"joinedAt"`

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
}
