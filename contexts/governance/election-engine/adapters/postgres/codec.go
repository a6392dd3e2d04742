package postgresadapter

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	votePairSeparator  = ","
	voteValueSeparator = "="
)

var ErrMalformedVotes = errors.New("malformed persisted vote map")

// EncodeVotes renders a vote map as comma separated key=value pairs, sorted
// by key. Delimiters inside keys or values are not escaped, so ids containing
// "," or "=" do not survive a round trip.
func EncodeVotes(votes map[string]string) string {
	if len(votes) == 0 {
		return ""
	}
	keys := make([]string, 0, len(votes))
	for key := range votes {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteString(votePairSeparator)
		}
		b.WriteString(key)
		b.WriteString(voteValueSeparator)
		b.WriteString(votes[key])
	}
	return b.String()
}

// DecodeVotes parses the text produced by EncodeVotes. An empty string is an
// empty map.
func DecodeVotes(raw string) (map[string]string, error) {
	votes := make(map[string]string)
	if raw == "" {
		return votes, nil
	}
	for _, pair := range strings.Split(raw, votePairSeparator) {
		key, value, ok := strings.Cut(pair, voteValueSeparator)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: pair %q", ErrMalformedVotes, pair)
		}
		votes[key] = value
	}
	return votes, nil
}

func encodeProposalVotes(votes map[string]bool) string {
	encoded := make(map[string]string, len(votes))
	for memberID, choice := range votes {
		if choice {
			encoded[memberID] = "true"
		} else {
			encoded[memberID] = "false"
		}
	}
	return EncodeVotes(encoded)
}

func decodeProposalVotes(raw string) (map[string]bool, error) {
	decoded, err := DecodeVotes(raw)
	if err != nil {
		return nil, err
	}
	votes := make(map[string]bool, len(decoded))
	for memberID, choice := range decoded {
		votes[memberID] = choice == "true"
	}
	return votes, nil
}
