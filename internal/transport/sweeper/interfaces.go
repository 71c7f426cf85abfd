package sweeper

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/groph-ledger/internal/domain"
	"github.com/fsdevblog/groph-ledger/internal/service"
)

type AutoReleaser interface {
	RunAutoReleaseSweep(ctx context.Context, limit uint) (*service.SweepReport, error)
}

type HoldReleaser interface {
	ReleaseDueHolds(ctx context.Context, limit uint) (*service.HoldReleaseReport, error)
}

type TransferRetrier interface {
	RetryPendingTransfers(ctx context.Context, limit uint) ([]domain.TransferFailure, error)
}

type TrustRecomputer interface {
	RecomputeTrustLevels(ctx context.Context) (int, error)
}
