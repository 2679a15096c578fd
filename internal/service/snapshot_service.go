package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/analytics"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/logger"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/metrics"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/repository"
)

// SnapshotService loads the ledger, reference data, FX rates and cached quotes
// and computes a PortfolioSnapshot from them.
type SnapshotService struct {
	ledger        LedgerSource
	referenceRepo *repository.ReferenceRepository
	quoteRepo     *repository.QuoteRepository
	opts          analytics.Options
	risk          *model.RiskMetrics
	now           func() time.Time
	logger        zerolog.Logger
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(
	ledger LedgerSource,
	referenceRepo *repository.ReferenceRepository,
	quoteRepo *repository.QuoteRepository,
	opts analytics.Options,
) *SnapshotService {
	return &SnapshotService{
		ledger:        ledger,
		referenceRepo: referenceRepo,
		quoteRepo:     quoteRepo,
		opts:          opts,
		now:           time.Now,
		logger:        logger.Component("snapshot"),
	}
}

// WithRiskMetrics sets externally computed risk metrics that every snapshot passes through.
func (s *SnapshotService) WithRiskMetrics(risk model.RiskMetrics) *SnapshotService {
	s.risk = &risk
	return s
}

// Snapshot computes the current portfolio snapshot.
//
// The four inputs are loaded concurrently. Any load failure is returned
// wrapped in apperrors.ErrSnapshotUnavailable. Data integrity failures from
// the computation (unknown ticker, asset class or currency, zero total value)
// are returned as is so callers can tell them apart with apperrors.IsIntegrityError.
func (s *SnapshotService) Snapshot(ctx context.Context) (model.PortfolioSnapshot, error) {
	start := time.Now()
	defer func() { metrics.SnapshotDuration.Observe(time.Since(start).Seconds()) }()

	in := analytics.Inputs{AsOf: s.now().UTC(), Risk: s.risk}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entries, err := s.ledger.Entries(gctx)
		if err != nil {
			return fmt.Errorf("ledger: %w", err)
		}
		in.Ledger = entries
		return nil
	})
	g.Go(func() error {
		ref, err := s.referenceRepo.Load(gctx)
		if err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveReference, err)
		}
		in.Reference = ref
		return nil
	})
	g.Go(func() error {
		rates, err := s.referenceRepo.GetRateTable(gctx)
		if err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveRates, err)
		}
		in.Rates = rates
		return nil
	})
	g.Go(func() error {
		quotes, err := s.quoteRepo.GetQuotes(gctx)
		if err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveQuotes, err)
		}
		in.Quotes = quotes
		return nil
	})

	if err := g.Wait(); err != nil {
		metrics.SnapshotFailures.WithLabelValues("load").Inc()
		s.logger.Error().Err(err).Msg("failed to load snapshot inputs")
		return model.PortfolioSnapshot{}, fmt.Errorf("%w: %w", apperrors.ErrSnapshotUnavailable, err)
	}

	snap, err := analytics.BuildSnapshot(in, s.opts)
	if err != nil {
		reason := "compute"
		if apperrors.IsIntegrityError(err) {
			reason = "integrity"
		}
		metrics.SnapshotFailures.WithLabelValues(reason).Inc()
		s.logger.Error().Err(err).Str("reason", reason).Msg("failed to compute snapshot")
		return model.PortfolioSnapshot{}, err
	}

	dq := snap.DataQuality
	metrics.SnapshotMissingInputs.WithLabelValues("quote").Set(float64(len(dq.MissingQuotes)))
	metrics.SnapshotMissingInputs.WithLabelValues("rate").Set(float64(len(dq.MissingRates)))
	metrics.SnapshotMissingInputs.WithLabelValues("cost").Set(float64(len(dq.UnknownCost)))
	if !dq.Complete() {
		s.logger.Warn().
			Strs("missingQuotes", dq.MissingQuotes).
			Strs("missingRates", dq.MissingRates).
			Strs("unknownCost", dq.UnknownCost).
			Msg("snapshot computed with missing inputs")
	}

	return snap, nil
}
