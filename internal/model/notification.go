package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"

	SMSMaxLength = 140
	MaxBatchSize = 10
)

const (
	ErrorWrongChannel    = "Choose a valid channel: sms or email"
	ErrorWrongClientUUID = "Wrong client ID format"
	ErrorSMSTooLong      = "Content length for [sms] channel is too long"
)

type Notification struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ClientID    uuid.UUID  `db:"client_id" json:"clientId"`
	Channel     string     `db:"channel" json:"channel"`
	Content     string     `db:"content" json:"content"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	IsProcessed bool       `db:"is_processed" json:"isProcessed"`
	ProcessedAt *time.Time `db:"processed_at" json:"processedAt"`
}

type CreateNotificationRequest struct {
	ClientID string `json:"clientId" validate:"required,uuid"`
	Channel  string `json:"channel" validate:"required,oneof=email sms"`
	Content  string `json:"content" validate:"required"`
}

// DispatchQueue is the broker queue the API publishes to and the
// delivery worker consumes from.
const DispatchQueue = "notifications:dispatch"

// DispatchMessage is the wire format of a queued delivery request.
// Recipient is resolved from the client record at creation time: the
// email address for the email channel, the phone number for sms.
type DispatchMessage struct {
	NotificationID uuid.UUID `json:"notification_id"`
	Channel        string    `json:"channel"`
	Content        string    `json:"content"`
	Recipient      string    `json:"recipient"`
}
