package entity

import "time"

type Channel int16

const (
	ChannelUnknown Channel = 0
	ChannelEmail   Channel = 1
)

func (c Channel) String() string {
	switch c {
	case ChannelEmail:
		return "Email"
	default:
		return "Unknown"
	}
}

type DeliveryStatus int16

const (
	DeliveryStatusUnknown DeliveryStatus = 0
	DeliveryStatusQueued  DeliveryStatus = 1
	DeliveryStatusSent    DeliveryStatus = 2
	DeliveryStatusFailed  DeliveryStatus = 3
)

func (ds DeliveryStatus) String() string {
	switch ds {
	case DeliveryStatusQueued:
		return "Queued"
	case DeliveryStatusSent:
		return "Sent"
	case DeliveryStatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// CreateDeliveryLog records an attempt before the provider is called.
type CreateDeliveryLog struct {
	ID        int64
	UserID    int64
	Channel   Channel
	Recipient string
	Subject   string
	Status    DeliveryStatus
	CreatedAt time.Time
}

// UpdateDeliveryLog settles the attempt after the provider responded.
type UpdateDeliveryLog struct {
	ID            int64
	Status        DeliveryStatus
	ProviderError string
	NextRetryAt   *time.Time
}
