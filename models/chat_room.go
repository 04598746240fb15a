package models

// ChatRoom is the placeholder row for the external chat collaborator.
// Created empty alongside its party; the collaborator owns everything else
// about the room and addresses it by ExternalRef.
type ChatRoom struct {
	BaseModel
	PartyID     uint   `gorm:"uniqueIndex;not null" json:"-"`
	ExternalRef string `gorm:"type:varchar(36);uniqueIndex;not null" json:"externalRef"`
}
