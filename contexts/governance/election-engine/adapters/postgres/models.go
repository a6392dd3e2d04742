package postgresadapter

import (
	"fmt"
	"strings"
	"time"

	"hoa/contexts/governance/election-engine/domain/entities"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type electionModel struct {
	ID              string                      `gorm:"column:id;primaryKey"`
	SequenceNumber  int64                       `gorm:"column:sequence_number;autoIncrement;uniqueIndex"`
	Kind            string                      `gorm:"column:kind;index"`
	AssociationID   int64                       `gorm:"column:association_id;index"`
	Name            string                      `gorm:"column:name"`
	Description     string                      `gorm:"column:description"`
	ScheduledFor    time.Time                   `gorm:"column:scheduled_for;index"`
	Status          string                      `gorm:"column:status;index"`
	VoteCount       int                         `gorm:"column:vote_count"`
	Votes           string                      `gorm:"column:votes;type:text"`
	AmountOfWinners int                         `gorm:"column:amount_of_winners"`
	Candidates      datatypes.JSONSlice[string] `gorm:"column:candidates"`
	Winners         datatypes.JSONSlice[string] `gorm:"column:winners"`
	WinningChoice   bool                        `gorm:"column:winning_choice"`
	Version         int64                       `gorm:"column:version"`
	CreatedAt       time.Time                   `gorm:"column:created_at"`
	UpdatedAt       time.Time                   `gorm:"column:updated_at"`
}

func (electionModel) TableName() string {
	return "elections"
}

func electionModelFromEntity(election entities.Election) electionModel {
	details := election.Details()
	row := electionModel{
		ID:             strings.TrimSpace(details.ElectionID),
		SequenceNumber: details.SequenceNumber,
		Kind:           string(election.Kind()),
		AssociationID:  details.AssociationID,
		Name:           details.Name,
		Description:    details.Description,
		ScheduledFor:   details.ScheduledFor.UTC(),
		Status:         string(details.Status),
		VoteCount:      details.VoteCount,
		Version:        details.Version,
		CreatedAt:      details.CreatedAt.UTC(),
		UpdatedAt:      details.UpdatedAt.UTC(),
	}
	switch typed := election.(type) {
	case *entities.Proposal:
		row.Votes = encodeProposalVotes(typed.Votes)
		row.WinningChoice = typed.WinningChoice
	case *entities.BoardElection:
		row.Votes = EncodeVotes(typed.Votes)
		row.AmountOfWinners = typed.AmountOfWinners
		row.Candidates = datatypes.JSONSlice[string](append([]string{}, typed.Candidates...))
		row.Winners = datatypes.JSONSlice[string](append([]string{}, typed.Winners...))
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m electionModel) toEntity() (entities.Election, error) {
	details := entities.ElectionDetails{
		ElectionID:     m.ID,
		SequenceNumber: m.SequenceNumber,
		AssociationID:  m.AssociationID,
		Name:           m.Name,
		Description:    m.Description,
		ScheduledFor:   m.ScheduledFor.UTC(),
		Status:         entities.ElectionStatus(m.Status),
		VoteCount:      m.VoteCount,
		Version:        m.Version,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
	switch entities.ElectionKind(m.Kind) {
	case entities.ElectionKindProposal:
		votes, err := decodeProposalVotes(m.Votes)
		if err != nil {
			return nil, err
		}
		return &entities.Proposal{
			ElectionDetails: details,
			Votes:           votes,
			WinningChoice:   m.WinningChoice,
		}, nil
	case entities.ElectionKindBoardElection:
		votes, err := DecodeVotes(m.Votes)
		if err != nil {
			return nil, err
		}
		return &entities.BoardElection{
			ElectionDetails: details,
			AmountOfWinners: m.AmountOfWinners,
			Candidates:      append([]string{}, m.Candidates...),
			Votes:           votes,
			Winners:         append([]string{}, m.Winners...),
		}, nil
	default:
		return nil, fmt.Errorf("unknown election kind %q", m.Kind)
	}
}

type membershipModel struct {
	MembershipID    string     `gorm:"column:membership_id;primaryKey"`
	MemberID        string     `gorm:"column:member_id;index"`
	AssociationID   int64      `gorm:"column:association_id"`
	IsBoardMember   bool       `gorm:"column:is_board_member"`
	JoinedAt        time.Time  `gorm:"column:joined_at"`
	DurationSeconds int64      `gorm:"column:duration_seconds"`
	EndedAt         *time.Time `gorm:"column:ended_at"`
}

func (membershipModel) TableName() string {
	return "election_membership_records"
}

func membershipModelFromEntity(record entities.MembershipRecord) membershipModel {
	row := membershipModel{
		MembershipID:    strings.TrimSpace(record.MembershipID),
		MemberID:        strings.TrimSpace(record.MemberID),
		AssociationID:   record.AssociationID,
		IsBoardMember:   record.IsBoardMember,
		JoinedAt:        record.JoinedAt.UTC(),
		DurationSeconds: int64(record.Duration / time.Second),
	}
	if record.EndedAt != nil {
		endedAt := record.EndedAt.UTC()
		row.EndedAt = &endedAt
	}
	return row
}

func (m membershipModel) toEntity() entities.MembershipRecord {
	record := entities.MembershipRecord{
		MembershipID:  m.MembershipID,
		MemberID:      m.MemberID,
		AssociationID: m.AssociationID,
		IsBoardMember: m.IsBoardMember,
		JoinedAt:      m.JoinedAt.UTC(),
		Duration:      time.Duration(m.DurationSeconds) * time.Second,
	}
	if m.EndedAt != nil {
		endedAt := m.EndedAt.UTC()
		record.EndedAt = &endedAt
	}
	return record
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	Position     int64      `gorm:"column:position;autoIncrement;uniqueIndex"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "election_outbox"
}

type eventDedupModel struct {
	EventID     string    `gorm:"column:event_id;primaryKey"`
	PayloadHash string    `gorm:"column:payload_hash"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
	ProcessedAt time.Time `gorm:"column:processed_at"`
}

func (eventDedupModel) TableName() string {
	return "election_event_dedup"
}

// Migrate creates or updates every table the election engine owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&electionModel{},
		&membershipModel{},
		&outboxModel{},
		&eventDedupModel{},
	)
}
