package models

import "strings"

// LandingForm is what the landing page form posts. Fbclid mirrors the
// landing URL query so click attribution survives the POST.
type LandingForm struct {
	Name   string `form:"nome" json:"nome"`
	Email  string `form:"email" json:"email"`
	Phone  string `form:"telefone" json:"telefone"`
	Fbclid string `form:"fbclid" json:"fbclid,omitempty"`
}

// Trimmed returns the form with surrounding whitespace removed from every field
func (f LandingForm) Trimmed() LandingForm {
	return LandingForm{
		Name:   strings.TrimSpace(f.Name),
		Email:  strings.TrimSpace(f.Email),
		Phone:  strings.TrimSpace(f.Phone),
		Fbclid: strings.TrimSpace(f.Fbclid),
	}
}

// FormData duplicates the contact fields under English keys
type FormData struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// LeadSubmission is the JSON body sent to the leads endpoint
type LeadSubmission struct {
	Name     string   `json:"nome"`
	Email    string   `json:"email"`
	Phone    string   `json:"telefone"`
	Source   string   `json:"origem"`
	FormData FormData `json:"formData"`
	EventID  string   `json:"eventId"`
	FBP      string   `json:"fbp,omitempty"`
	FBC      string   `json:"fbc,omitempty"`
}

// NewLeadSubmission builds the payload for a validated form
func NewLeadSubmission(f LandingForm, source, eventID, fbp, fbc string) LeadSubmission {
	return LeadSubmission{
		Name:     f.Name,
		Email:    f.Email,
		Phone:    f.Phone,
		Source:   source,
		FormData: FormData{Name: f.Name, Email: f.Email, Phone: f.Phone},
		EventID:  eventID,
		FBP:      fbp,
		FBC:      fbc,
	}
}
