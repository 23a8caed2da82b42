package entity

import "errors"

var (
	// ErrOTPNotActive means no usable passcode exists: never issued, expired,
	// already consumed, or superseded by a newer issuance.
	ErrOTPNotActive = errors.New("passcode: no active otp")

	// ErrOTPLockedOut means the active passcode has exhausted its attempt
	// budget and can no longer be presented, even with the correct code.
	ErrOTPLockedOut = errors.New("passcode: otp attempts exhausted")

	// ErrOTPMismatch means the presented code differs from the stored one.
	ErrOTPMismatch = errors.New("passcode: otp mismatch")
)

type UserStatus int16

const (
	// UserStatusUnknown is mean status is not known / not set.
	UserStatusUnknown UserStatus = 0

	// UserStatusUnverified mean user exists but has not completed verification.
	UserStatusUnverified UserStatus = 1

	// UserStatusActive mean user is verified and allowed to use the app.
	UserStatusActive UserStatus = 2

	// UserStatusBanned mean user is blocked from using the app (policy/abuse/etc).
	UserStatusBanned UserStatus = 3

	// UserStatusInactive mean user is not currently active (e.g., deactivated, closed).
	UserStatusInactive UserStatus = 4
)

func (us UserStatus) String() string {
	switch us {
	case UserStatusActive:
		return "Active"
	case UserStatusBanned:
		return "Banned"
	case UserStatusInactive:
		return "Inactive"
	case UserStatusUnverified:
		return "Unverified"
	default:
		return "Unknown"
	}
}

func (us UserStatus) Ensure() UserStatus {
	switch us {
	case UserStatusActive, UserStatusBanned, UserStatusInactive, UserStatusUnverified:
		return us
	default:
		return UserStatusUnknown
	}
}
