package models

import (
	"time"

	"gorm.io/gorm"
)

type contextKey string

// ContextUserIDKey carries the acting user's id through the request context
// so the audit hooks below can stamp created_by/updated_by.
const ContextUserIDKey contextKey = "user_id"

// BaseModel is embedded by every persisted model.
type BaseModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
	CreatedBy *uint     `gorm:"index" json:"-"`
	UpdatedBy *uint     `json:"-"`
}

func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if userID, ok := tx.Statement.Context.Value(ContextUserIDKey).(uint); ok && userID != 0 {
		m.CreatedBy = &userID
		m.UpdatedBy = &userID
	}
	return nil
}

func (m *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	if userID, ok := tx.Statement.Context.Value(ContextUserIDKey).(uint); ok && userID != 0 {
		m.UpdatedBy = &userID
	}
	return nil
}
