package models

// User mirrors the identity records owned by the external authenticator.
// Only the columns this service reads are mapped.
type User struct {
	BaseModel
	Email       string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	DisplayName string `gorm:"type:varchar(100);not null" json:"displayName"`
	AvatarURL   string `gorm:"type:varchar(500)" json:"avatarUrl"`
	IsSystem    bool   `gorm:"not null;default:false" json:"-"`
}

// UserSummary is the public projection embedded in rosters and party views.
type UserSummary struct {
	ID          uint   `json:"id"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}
