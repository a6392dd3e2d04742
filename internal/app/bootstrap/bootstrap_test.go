package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	electionengine "hoa/contexts/governance/election-engine"
	"hoa/contexts/governance/election-engine/application/workers"
	"hoa/contexts/governance/election-engine/domain/entities"
	"hoa/contexts/governance/election-engine/ports/mocks"
)

func TestPollLoopKeepsRunningAfterOpenerFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockElectionRegistry(ctrl)
	outbox := mocks.NewMockOutboxRepository(ctrl)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	gomock.InOrder(
		registry.EXPECT().ListDueForOpening(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("database unavailable")),
		registry.EXPECT().ListDueForOpening(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(context.Context, time.Time, int) ([]entities.Election, error) {
				cancel()
				return nil, nil
			}),
	)
	outbox.EXPECT().ListPendingOutbox(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	app := &WorkerApp{
		module: electionengine.Module{
			Opener:      workers.ElectionOpener{Registry: registry},
			OutboxRelay: workers.OutboxRelay{Outbox: outbox},
		},
		pollInterval: 10 * time.Millisecond,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	require.NoError(t, app.pollLoop(ctx))
	assert.ErrorIs(t, ctx.Err(), context.Canceled, "the loop must reach the second cycle")
}
