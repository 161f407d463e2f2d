package models

import "time"

// Session statuses. The stored status is admin-controlled; it is never
// derived from the headcount. The availability query filters by the
// computed count instead.
const (
	SessionStatusOpen      = "open"
	SessionStatusFull      = "full"
	SessionStatusCancelled = "cancelled"
	SessionStatusCompleted = "completed"
)

// SessionStatuses lists every accepted status value.
var SessionStatuses = []string{
	SessionStatusOpen,
	SessionStatusFull,
	SessionStatusCancelled,
	SessionStatusCompleted,
}

// TrainingSession is a scheduled, capacity-bounded offering of one training
// type at a date/time/location.
type TrainingSession struct {
	ID                      uint      `json:"id" gorm:"primarykey"`
	TrainingType            string    `json:"training_type" gorm:"not null;index"`
	SessionDate             time.Time `json:"session_date" gorm:"not null"`
	StartTime               string    `json:"start_time" gorm:"default:''"`
	EndTime                 string    `json:"end_time" gorm:"default:''"`
	Location                string    `json:"location" gorm:"default:''"`
	Description             string    `json:"description" gorm:"default:''"`
	MaxParticipants         int       `json:"max_participants" gorm:"not null"`
	Status                  string    `json:"status" gorm:"default:'open'"`
	AllowPublicRegistration bool      `json:"allow_public_registration" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionWithCount is a session row joined with its derived headcount.
// Neither derived field is ever stored.
type SessionWithCount struct {
	TrainingSession
	RegisteredCount int64 `json:"registered_count"`
	AvailableSpots  int64 `json:"available_spots"`
}

// ValidSessionStatus reports whether s is one of the accepted statuses.
func ValidSessionStatus(s string) bool {
	for _, v := range SessionStatuses {
		if v == s {
			return true
		}
	}
	return false
}
