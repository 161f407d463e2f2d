package models

import "time"

// Registration statuses. Transitions are admin-driven only.
const (
	RegistrationStatusNew       = "new"
	RegistrationStatusInReview  = "in_review"
	RegistrationStatusApproved  = "approved"
	RegistrationStatusRejected  = "rejected"
	RegistrationStatusCompleted = "completed"
)

// RegistrationStatuses lists every accepted status value.
var RegistrationStatuses = []string{
	RegistrationStatusNew,
	RegistrationStatusInReview,
	RegistrationStatusApproved,
	RegistrationStatusRejected,
	RegistrationStatusCompleted,
}

// Registration is a person's record of interest in one or more trainings,
// optionally bound to a scheduled session. Deletes are hard deletes.
type Registration struct {
	ID          uint     `json:"id" gorm:"primarykey"`
	FirstName   string   `json:"first_name" gorm:"not null"`
	Infix       string   `json:"infix" gorm:"default:''"`
	LastName    string   `json:"last_name" gorm:"not null"`
	BirthDate   string   `json:"birth_date" gorm:"default:''"`
	BirthPlace  string   `json:"birth_place" gorm:"default:''"`
	Email       string   `json:"email" gorm:"not null"`
	Phone       string   `json:"phone" gorm:"default:''"`
	Street      string   `json:"street" gorm:"default:''"`
	HouseNumber string   `json:"house_number" gorm:"default:''"`
	Postcode    string   `json:"postcode" gorm:"default:''"`
	City        string   `json:"city" gorm:"default:''"`
	CompanyName *string  `json:"company_name"`
	CompanyRole *string  `json:"company_role"`
	Trainings   []string `json:"trainings" gorm:"serializer:json"`
	Status      string   `json:"status" gorm:"default:'new'"`
	SessionID   *uint    `json:"session_id" gorm:"index"`
	Notes       string   `json:"notes" gorm:"default:''"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidRegistrationStatus reports whether s is one of the accepted statuses.
func ValidRegistrationStatus(s string) bool {
	for _, v := range RegistrationStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Clone returns a copy of the registration bound to the given session, with
// fresh identity and timestamps so it can be inserted as a new row.
func (r Registration) Clone(sessionID uint) Registration {
	clone := r
	clone.ID = 0
	clone.SessionID = &sessionID
	clone.CreatedAt = time.Time{}
	clone.UpdatedAt = time.Time{}
	return clone
}
