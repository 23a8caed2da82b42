package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/novahq/novapass/internal/passcode/entity"
	"github.com/novahq/novapass/internal/pkg/goerror"
)

func TestPasswordForgotIssuesCodeAndPublishes(t *testing.T) {
	f := newFixture(t)
	f.activeUser(t, 7, "alice@example.com")

	if err := f.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: "  Alice@Example.COM "}); err != nil {
		t.Fatalf("PasswordForgot: %v", err)
	}

	if err := f.worker.Wait(); err != nil {
		t.Fatalf("wait for publish: %v", err)
	}

	if len(f.repo.otps) != 1 {
		t.Fatalf("expected 1 otp, got %d", len(f.repo.otps))
	}
	otp := f.repo.otps[0]
	if len(otp.Code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", otp.Code)
	}
	for _, r := range otp.Code {
		if r < '0' || r > '9' {
			t.Fatalf("code contains non-digit: %q", otp.Code)
		}
	}
	if !otp.ExpiresAt.Equal(testNow.Add(5 * time.Minute)) {
		t.Fatalf("expected expiry at now+5m, got %v", otp.ExpiresAt)
	}

	events := f.pub.published()
	if len(events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(events))
	}
	if events[0].UserID != 7 || events[0].Email != "alice@example.com" || events[0].Code != otp.Code {
		t.Fatalf("unexpected event: %+v", events[0])
	}
	if !events[0].ExpiresAt.Equal(otp.ExpiresAt) {
		t.Fatalf("event expiry %v does not match otp expiry %v", events[0].ExpiresAt, otp.ExpiresAt)
	}
}

func TestPasswordForgotUnknownEmailIsSilent(t *testing.T) {
	f := newFixture(t)

	if err := f.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: "ghost@example.com"}); err != nil {
		t.Fatalf("expected nil for unknown email, got %v", err)
	}

	if err := f.worker.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if len(f.repo.otps) != 0 {
		t.Fatalf("expected no otp rows, got %d", len(f.repo.otps))
	}
	if len(f.pub.published()) != 0 {
		t.Fatal("expected no published events for unknown email")
	}
}

func TestPasswordForgotIneligibleUserIsSilent(t *testing.T) {
	statuses := []entity.UserStatus{
		entity.UserStatusUnverified,
		entity.UserStatusBanned,
		entity.UserStatusInactive,
		entity.UserStatusUnknown,
	}

	for _, status := range statuses {
		t.Run(status.String(), func(t *testing.T) {
			f := newFixture(t)
			f.repo.addUser(entity.User{ID: 3, Email: "bob@example.com", Status: status})

			if err := f.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: "bob@example.com"}); err != nil {
				t.Fatalf("expected nil for %s user, got %v", status, err)
			}
			if len(f.repo.otps) != 0 {
				t.Fatal("expected no otp issued for ineligible user")
			}
		})
	}
}

func TestPasswordForgotInvalidEmail(t *testing.T) {
	f := newFixture(t)

	err := f.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: "not-an-email"})
	assertBusinessCode(t, err, goerror.CodeInvalidInput)
}

func TestPasswordForgotReissueSupersedesPrevious(t *testing.T) {
	f := newFixture(t)
	f.activeUser(t, 7, "alice@example.com")
	f.activeOTP(t, 100, 7, "111111")

	if err := f.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: "alice@example.com"}); err != nil {
		t.Fatalf("PasswordForgot: %v", err)
	}

	old := f.repo.otpByID(100)
	if old == nil || !old.IsUsed {
		t.Fatal("expected previous otp to be invalidated by reissue")
	}

	// the superseded code must no longer verify
	err := f.uc.OTPVerify(context.Background(), OTPVerifyInput{Email: "alice@example.com", Code: "111111"})
	assertBusinessCode(t, err, goerror.CodeUnauthorized)
}

func TestPasswordForgotRepoFailure(t *testing.T) {
	f := newFixture(t)
	f.activeUser(t, 7, "alice@example.com")
	f.repo.errCreateOTP = errors.New("connection reset")

	err := f.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: "alice@example.com"})
	if err == nil {
		t.Fatal("expected error when otp insert fails")
	}
	var ge *goerror.Error
	if !errors.As(err, &ge) || ge.Type() != goerror.TypeServer {
		t.Fatalf("expected server error, got %v", err)
	}
}
