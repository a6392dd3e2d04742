package v1

import (
	"encoding/json"
	"time"
)

// Envelope is the versioned event shape shared by producers and consumers.
// Fields may be added but never renamed.
type Envelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

const (
	EventElectionCreated         = "election.created"
	EventElectionOpened          = "election.opened"
	EventElectionConcluded       = "election.concluded"
	EventElectionVoteCast        = "election.vote_cast"
	EventElectionVoteRetracted   = "election.vote_retracted"
	EventElectionCandidateJoined = "election.candidate_joined"
	EventElectionCandidateLeft   = "election.candidate_left"

	EventMembershipRecorded = "membership.recorded"
)

// Topics lists every topic the election engine produces to or consumes from.
// Event types double as topic names.
func Topics() []string {
	return []string{
		EventElectionCreated,
		EventElectionOpened,
		EventElectionConcluded,
		EventElectionVoteCast,
		EventElectionVoteRetracted,
		EventElectionCandidateJoined,
		EventElectionCandidateLeft,
		EventMembershipRecorded,
	}
}

// MembershipRecorded is published by the membership service whenever a
// membership starts, changes board status or ends.
type MembershipRecorded struct {
	MembershipID    string     `json:"membership_id"`
	MemberID        string     `json:"member_id"`
	AssociationID   int64      `json:"association_id"`
	IsBoardMember   bool       `json:"is_board_member"`
	JoinedAt        time.Time  `json:"joined_at"`
	DurationSeconds int64      `json:"duration_seconds"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
}
