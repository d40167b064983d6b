package model

import "time"

const (
	UserTypeVolunteer    = "volunteer"
	UserTypeOrganization = "organization"
)

// ValidUserType reports whether t is one of the two account kinds.
func ValidUserType(t string) bool {
	return t == UserTypeVolunteer || t == UserTypeOrganization
}

type Account struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"uniqueIndex;size:191" json:"email"`
	Password string `json:"-"`
	UserType string `gorm:"size:16;index" json:"userType"`

	// volunteer
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Skill     string `json:"skills,omitempty"`
	Bio       string `json:"bio,omitempty"`

	// organization
	OrgName     string `json:"orgName,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Location    string `json:"location,omitempty"`
	OrgType     string `json:"orgType,omitempty"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`

	TermsAccepted bool      `json:"termsAccepted"`
	CreatedAt     time.Time `json:"createdAt"`
}

// DisplayName is the name shown in greetings and the navbar.
func (a *Account) DisplayName() string {
	if a.UserType == UserTypeOrganization && a.OrgName != "" {
		return a.OrgName
	}
	if a.FirstName != "" || a.LastName != "" {
		return a.FirstName + " " + a.LastName
	}
	return a.Email
}

type ContactMessage struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `gorm:"size:191;index" json:"email"`
	InquiryType string    `gorm:"size:32" json:"inquiryType"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Account) TableName() string        { return "accounts" }
func (ContactMessage) TableName() string { return "contact_messages" }
