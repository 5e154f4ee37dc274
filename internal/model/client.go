package model

import (
	"github.com/google/uuid"
)

// Validation messages for client fields. The API reports these
// verbatim in the error envelope.
const (
	ErrorBlank             = "The value of the field can not be blank"
	ErrorTooShort          = "The value of the field is too short"
	ErrorTooLong           = "The value of the field is too long"
	ErrorEmailUnique       = "Provided email address already in use"
	ErrorPhoneNumberUnique = "Provided phone number already in use"
	ErrorEmailFormat       = "Wrong email format provided"
	ErrorPhoneNumberFormat = "Wrong phone number format provided"
	ErrorFirstNameLatin    = "First name can only contain latin letters without spaces"
	ErrorLastNameLatin     = "Last name can only contain latin letters without spaces"
)

type Client struct {
	ID          uuid.UUID `db:"id" json:"id"`
	FirstName   string    `db:"first_name" json:"firstName"`
	LastName    string    `db:"last_name" json:"lastName"`
	Email       string    `db:"email" json:"email"`
	PhoneNumber string    `db:"phone_number" json:"phoneNumber"`
}

type CreateClientRequest struct {
	FirstName   string `json:"firstName" validate:"required,min=2,max=32,latin"`
	LastName    string `json:"lastName" validate:"required,min=2,max=32,latin"`
	Email       string `json:"email" validate:"required,max=255,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required,max=16,phone"`
}

// UpdateClientRequest carries a partial update: empty fields are left
// untouched on the stored client.
type UpdateClientRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}
