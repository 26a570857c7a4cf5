// Package session keeps per-user conversation state in memory.
// Each multi-step flow carries a typed draft instead of a loose bag of
// key/value pairs, so handlers never cast interface{} values.
package session

import (
	"time"

	"github.com/bloodlink/bloodbot/internal/domain"
)

// State identifies a single step of a conversation flow.
type State string

// StateIdle means there is no active conversation with the user.
const StateIdle State = "idle"

// DonorDraft accumulates donor onboarding and profile-update input.
type DonorDraft struct {
	BloodType    domain.BloodType
	City         string
	Latitude     *float64
	Longitude    *float64
	LastDonation *time.Time
}

// CenterDraft accumulates staff login and center registration input.
type CenterDraft struct {
	LoginName string

	Name      string
	City      string
	Address   string
	Latitude  *float64
	Longitude *float64
	Login     string
}

// RequestDraft accumulates a staff member's dated donation request.
type RequestDraft struct {
	BloodType   domain.BloodType
	RequestDate *time.Time
}

// EditDraft tracks which center profile field is being edited.
type EditDraft struct {
	Field string
}

// Session is the conversation state of one Telegram user.
type Session struct {
	State   State
	Donor   *DonorDraft
	Center  *CenterDraft
	Request *RequestDraft
	Edit    *EditDraft
}
