package electionengine

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"hoa/contexts/governance/election-engine/adapters/memory"
	"hoa/contexts/governance/election-engine/application/commands"
	"hoa/contexts/governance/election-engine/application/queries"
	"hoa/contexts/governance/election-engine/application/workers"
	"hoa/contexts/governance/election-engine/domain/entities"
	"hoa/contexts/governance/election-engine/domain/services"
	"hoa/contexts/governance/election-engine/ports"
)

type Module struct {
	Commands           commands.ElectionUseCase
	Queries            queries.ElectionQueries
	Opener             workers.ElectionOpener
	OutboxRelay        workers.OutboxRelay
	MembershipConsumer workers.MembershipConsumer
	Store              *memory.Store
}

type Dependencies struct {
	Registry    ports.ElectionRegistry
	Locker      ports.ElectionLocker
	Memberships ports.MembershipProjection
	Outbox      ports.OutboxRepository
	Dedup       ports.EventDedupStore
	Publisher   ports.EventPublisher
	Subscriber  ports.EventSubscriber
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	Metrics     ports.Metrics
	Tracer      trace.Tracer
	Eligibility services.Chain

	BatchSize                 int
	DedupTTL                  time.Duration
	DisableOpener             bool
	DisableMembershipConsumer bool
	Logger                    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	useCase := commands.ElectionUseCase{
		Registry:    deps.Registry,
		Locker:      deps.Locker,
		Memberships: deps.Memberships,
		Clock:       deps.Clock,
		IDGen:       deps.IDGen,
		Metrics:     deps.Metrics,
		Eligibility: deps.Eligibility,
		Logger:      deps.Logger,
		Tracer:      deps.Tracer,
	}
	return Module{
		Commands: useCase,
		Queries: queries.ElectionQueries{
			Registry: deps.Registry,
		},
		Opener: workers.ElectionOpener{
			Registry:  deps.Registry,
			Opener:    useCase,
			Clock:     deps.Clock,
			BatchSize: deps.BatchSize,
			Disabled:  deps.DisableOpener,
			Logger:    deps.Logger,
		},
		OutboxRelay: workers.OutboxRelay{
			Outbox:    deps.Outbox,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			BatchSize: deps.BatchSize,
			Logger:    deps.Logger,
		},
		MembershipConsumer: workers.MembershipConsumer{
			Subscriber:    deps.Subscriber,
			Dedup:         deps.Dedup,
			Memberships:   deps.Memberships,
			Clock:         deps.Clock,
			ConsumerGroup: "election-engine-membership-cg",
			DedupTTL:      deps.DedupTTL,
			Disabled:      deps.DisableMembershipConsumer,
			Logger:        deps.Logger,
		},
	}
}

// NewInMemoryModule wires every port to one in-process store. Publisher and
// Subscriber stay nil, so only the opener worker is usable.
func NewInMemoryModule(seed []entities.Election, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Registry:                  store,
		Locker:                    store,
		Memberships:               store,
		Outbox:                    store,
		Dedup:                     store,
		Clock:                     store,
		IDGen:                     store,
		DedupTTL:                  7 * 24 * time.Hour,
		DisableMembershipConsumer: true,
		Logger:                    logger,
	})
	module.Store = store
	return module
}
