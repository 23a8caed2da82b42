package entity

import "time"

// User is the account a passcode flow operates on.
type User struct {
	ID        int64
	Email     string
	Password  string // hashed
	Status    UserStatus
	CreatedAt time.Time
}

// OTP is a stored one-time passcode row.
type OTP struct {
	ID        int64
	UserID    int64
	Code      string
	Attempts  int16
	IsUsed    bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

// ActiveAt reports whether the passcode can still be presented at the given
// instant. Attempt lockout is a separate check.
func (o OTP) ActiveAt(now time.Time) bool {
	return !o.IsUsed && o.ExpiresAt.After(now)
}

// NewOTP carries the fields for a freshly issued passcode.
type NewOTP struct {
	ID        int64
	UserID    int64
	Code      string
	CreatedAt time.Time
	ExpiresAt time.Time
}
