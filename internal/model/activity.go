package model

import "time"

// ActivitySource identifies the collection an activity event came from.
type ActivitySource string

const (
	SourceUser    ActivitySource = "user"
	SourceListing ActivitySource = "listing"
	SourceInquiry ActivitySource = "inquiry"
	SourceOrder   ActivitySource = "order"
)

// sourcePriority fixes a deterministic ordering between sources when two
// events carry the same timestamp.
var sourcePriority = map[ActivitySource]int{
	SourceUser:    0,
	SourceListing: 1,
	SourceInquiry: 2,
	SourceOrder:   3,
}

// Priority returns the source's tie-break rank in the merged feed.
func (s ActivitySource) Priority() int {
	return sourcePriority[s]
}

// ActivityEvent is a normalized projection of a recent record from one of
// the activity sources. The ID is prefixed with the source type so events
// from different collections never collide.
type ActivityEvent struct {
	ID        string         `json:"id"`
	Source    ActivitySource `json:"source"`
	Actor     string         `json:"actor"`
	Contact   string         `json:"contact,omitempty"`
	Action    string         `json:"action"`
	Target    string         `json:"target,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
