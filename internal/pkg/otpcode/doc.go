// Package otpcode generates fixed-length numeric one-time passcodes.
//
// Codes are drawn from crypto/rand so they cannot be predicted from earlier
// issuances. Generation is uniform over the full code space; zero-padding
// keeps the length fixed.
package otpcode
