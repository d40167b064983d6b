package model

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	UserType string `json:"userType"`
	User     User   `json:"user"`
}

type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	UserType string `json:"userType"`
}

type VolunteerRegistration struct {
	FirstName       string `json:"firstName" form:"firstName" binding:"required"`
	LastName        string `json:"lastName" form:"lastName" binding:"required"`
	Email           string `json:"email" form:"email" binding:"required,email"`
	Password        string `json:"password" form:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword,omitempty" form:"confirmPassword" binding:"omitempty,eqfield=Password"`
	Skills          string `json:"skills,omitempty" form:"skills"`
	Bio             string `json:"bio,omitempty" form:"bio"`
	TermsAccepted   bool   `json:"termsAccepted" binding:"required"`
}

type OrganizationRegistration struct {
	OrgName         string `json:"orgName" form:"orgName" binding:"required"`
	Email           string `json:"email" form:"email" binding:"required,email"`
	Phone           string `json:"phone" form:"phone" binding:"required"`
	Password        string `json:"password" form:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword,omitempty" form:"confirmPassword" binding:"omitempty,eqfield=Password"`
	OrgType         string `json:"orgType,omitempty" form:"orgType"`
	Description     string `json:"description,omitempty" form:"description"`
	Website         string `json:"website,omitempty" form:"website" binding:"omitempty,url"`
	TermsAccepted   bool   `json:"termsAccepted" binding:"required"`
}

type RegisterResponse struct {
	ID       int    `json:"id"`
	UserType string `json:"userType"`
}

type CreateChatSessionRequest struct {
	Kind string `json:"kind"`
}

type ChatSubmitRequest struct {
	Text string `json:"text"`
}

type ContactRequest struct {
	FirstName   string `form:"firstName" binding:"required"`
	LastName    string `form:"lastName" binding:"required"`
	Email       string `form:"email" binding:"required,email"`
	InquiryType string `form:"inquiryType"`
	Message     string `form:"message" binding:"required"`
}

// ProfileUpdate is the profile edit form. Name fields apply to the account
// type they belong to; About maps to a volunteer's bio or an organization's
// description.
type ProfileUpdate struct {
	FirstName string `form:"firstName"`
	LastName  string `form:"lastName"`
	OrgName   string `form:"orgName"`
	Email     string `form:"email" binding:"required,email"`
	Phone     string `form:"phone"`
	Location  string `form:"location"`
	Skills    string `form:"skills"`
	About     string `form:"about"`
}

type ImportConfirmRequest struct {
	Token string `json:"token" binding:"required"`
}
