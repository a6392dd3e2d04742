package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	application "hoa/contexts/governance/election-engine/application"
	"hoa/contexts/governance/election-engine/domain/entities"
	domainerrors "hoa/contexts/governance/election-engine/domain/errors"
	"hoa/contexts/governance/election-engine/ports"
)

// Opener is the command used to open a single election.
type Opener interface {
	OpenElection(ctx context.Context, electionID string) (entities.Election, error)
}

// ElectionOpener flips scheduled elections to ongoing once their scheduled
// instant has passed.
type ElectionOpener struct {
	Registry  ports.ElectionRegistry
	Opener    Opener
	Clock     ports.Clock
	BatchSize int
	Disabled  bool
	Logger    *slog.Logger
}

// RunOnce opens every due election in one batch. Elections another writer
// opened or concluded in the meantime are skipped.
func (o ElectionOpener) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(o.Logger)
	if o.Disabled {
		return nil
	}
	limit := o.BatchSize
	if limit <= 0 {
		limit = 100
	}
	now := time.Now().UTC()
	if o.Clock != nil {
		now = o.Clock.Now().UTC()
	}

	due, err := o.Registry.ListDueForOpening(ctx, now, limit)
	if err != nil {
		logger.Error("election opener list failed",
			"event", "election_opener_list_failed",
			"module", application.ModuleName,
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	opened := 0
	for _, election := range due {
		electionID := election.Details().ElectionID
		if _, err := o.Opener.OpenElection(ctx, electionID); err != nil {
			if errors.Is(err, domainerrors.ErrInvalidState) {
				logger.Debug("election opener skipped election",
					"event", "election_opener_skipped",
					"module", application.ModuleName,
					"layer", "worker",
					"election_id", electionID,
				)
				continue
			}
			logger.Error("election opener open failed",
				"event", "election_opener_open_failed",
				"module", application.ModuleName,
				"layer", "worker",
				"election_id", electionID,
				"error", err.Error(),
			)
			return err
		}
		opened++
	}

	if opened > 0 {
		logger.Info("election opener cycle completed",
			"event", "election_opener_completed",
			"module", application.ModuleName,
			"layer", "worker",
			"opened_count", opened,
		)
	}
	return nil
}
