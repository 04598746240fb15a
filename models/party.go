package models

import "time"

// PartyStatus is the explicit, caller-driven lifecycle state of a party.
type PartyStatus string

const (
	PartyStatusDraft     PartyStatus = "DRAFT"
	PartyStatusPlanned   PartyStatus = "PLANNED"
	PartyStatusLive      PartyStatus = "LIVE"
	PartyStatusEnded     PartyStatus = "ENDED"
	PartyStatusCancelled PartyStatus = "CANCELLED"
)

// partyStatusTransitions lists the legal forward edges. CANCELLED is
// reachable from every non-terminal state; ENDED and CANCELLED are terminal.
var partyStatusTransitions = map[PartyStatus][]PartyStatus{
	PartyStatusDraft:   {PartyStatusPlanned, PartyStatusCancelled},
	PartyStatusPlanned: {PartyStatusLive, PartyStatusCancelled},
	PartyStatusLive:    {PartyStatusEnded, PartyStatusCancelled},
}

func (s PartyStatus) Valid() bool {
	switch s {
	case PartyStatusDraft, PartyStatusPlanned, PartyStatusLive, PartyStatusEnded, PartyStatusCancelled:
		return true
	}
	return false
}

func (s PartyStatus) Terminal() bool {
	return s == PartyStatusEnded || s == PartyStatusCancelled
}

func (s PartyStatus) CanTransitionTo(next PartyStatus) bool {
	for _, allowed := range partyStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Party is a hosted event. AttendeesCount is denormalized and kept in step
// with the attendees table inside the same transaction as every roster
// mutation; AccessCode is present iff IsPrivate and never regenerated.
type Party struct {
	BaseModel
	HostID         uint        `gorm:"index;not null" json:"hostId"`
	Title          string      `gorm:"type:varchar(255);not null" json:"title"`
	Description    string      `gorm:"type:text" json:"description,omitempty"`
	CoverImageURL  string      `gorm:"type:varchar(500)" json:"coverImageUrl,omitempty"`
	StartsAt       time.Time   `gorm:"index;not null" json:"startsAt"`
	EndsAt         *time.Time  `json:"endsAt,omitempty"`
	Status         PartyStatus `gorm:"type:varchar(20);not null;default:'PLANNED';index" json:"status"`
	IsPrivate      bool        `gorm:"not null;default:false;index" json:"isPrivate"`
	AccessCode     *string     `gorm:"type:varchar(6);uniqueIndex" json:"accessCode,omitempty"`
	MaxAttendees   *int        `json:"maxAttendees,omitempty"`
	AttendeesCount int         `gorm:"not null;default:0" json:"attendeesCount"`

	Host      User       `gorm:"foreignKey:HostID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"host,omitempty"`
	Venue     *Venue     `gorm:"foreignKey:PartyID;constraint:OnDelete:CASCADE;" json:"venue,omitempty"`
	Tags      []Tag      `gorm:"many2many:party_tags;" json:"tags,omitempty"`
	Attendees []Attendee `gorm:"foreignKey:PartyID;constraint:OnDelete:CASCADE;" json:"-"`
	ChatRoom  *ChatRoom  `gorm:"foreignKey:PartyID;constraint:OnDelete:CASCADE;" json:"chatRoom,omitempty"`
}

// Venue is the optional 1:1 location detail, owned entirely by its party.
type Venue struct {
	BaseModel
	PartyID   uint     `gorm:"uniqueIndex;not null" json:"-"`
	Name      string   `gorm:"type:varchar(255);not null" json:"name"`
	Address   string   `gorm:"type:varchar(500)" json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}
