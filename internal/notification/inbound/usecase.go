package inbound

import (
	"context"

	"github.com/novahq/novapass/internal/notification/usecase"
)

type uc interface {
	ConsumeOTPIssued(ctx context.Context, in usecase.ConsumeOTPIssuedInput) error
}
