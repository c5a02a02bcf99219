package models

import "time"

// RequestStatus captures the lifecycle state of a document request.
type RequestStatus string

const (
	// StatusRequesting is the transient form default. It is normalized to
	// Processing on submit and never persists past creation.
	StatusRequesting RequestStatus = "Requesting"
	StatusProcessing RequestStatus = "Processing"
	StatusToReceive  RequestStatus = "To Receive"
	StatusCompleted  RequestStatus = "Completed"
)

// statusRank orders the lifecycle. Transitions may only move one step
// forward; there are no backward moves and no skips.
var statusRank = map[RequestStatus]int{
	StatusRequesting: 0,
	StatusProcessing: 1,
	StatusToReceive:  2,
	StatusCompleted:  3,
}

// Valid reports whether the status is one of the defined lifecycle states.
func (s RequestStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanAdvanceTo reports whether a single forward step from s to next is legal.
// Requesting and Processing share a rank boundary: a Requesting entity is
// treated as Processing for transition purposes.
func (s RequestStatus) CanAdvanceTo(next RequestStatus) bool {
	from, ok := statusRank[s.normalized()]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to == from+1
}

// Editable reports whether identity fields may still be mutated and the
// request deleted.
func (s RequestStatus) Editable() bool {
	return s.normalized() == StatusProcessing
}

func (s RequestStatus) normalized() RequestStatus {
	if s == StatusRequesting {
		return StatusProcessing
	}
	return s
}

// DocumentRequest represents one student's request for a registrar document.
// JSON field names follow the mobile client's stored layout.
type DocumentRequest struct {
	ID        string        `json:"id"`
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	StudentID string        `json:"studentId"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	Document  string        `json:"document"`
	Date      string        `json:"date"`
	Reason    string        `json:"reason"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Advance moves the request one step forward, rejecting every other move.
func (r *DocumentRequest) Advance(next RequestStatus) bool {
	if !r.Status.CanAdvanceTo(next) {
		return false
	}
	r.Status = next
	return true
}

// Tab identifies one of the three visible request lists.
type Tab string

const (
	TabProcessing Tab = "Processing"
	TabToReceive  Tab = "To Receive"
	TabCompleted  Tab = "Completed"
)

// Tabs lists the three projections in display order.
var Tabs = []Tab{TabProcessing, TabToReceive, TabCompleted}

// ParseTab maps a label to a tab, defaulting to Processing.
func ParseTab(label string) (Tab, bool) {
	switch Tab(label) {
	case TabProcessing, TabToReceive, TabCompleted:
		return Tab(label), true
	case "":
		return TabProcessing, true
	}
	return TabProcessing, false
}

// TabFor assigns a status to exactly one tab. The transient Requesting
// default lands on the Processing tab.
func TabFor(status RequestStatus) Tab {
	switch status.normalized() {
	case StatusToReceive:
		return TabToReceive
	case StatusCompleted:
		return TabCompleted
	default:
		return TabProcessing
	}
}

// ProjectTab filters a collection snapshot down to one tab. The union of
// the three tabs over any collection yields every entity exactly once.
func ProjectTab(items []DocumentRequest, tab Tab) []DocumentRequest {
	out := make([]DocumentRequest, 0, len(items))
	for _, item := range items {
		if TabFor(item.Status) == tab {
			out = append(out, item)
		}
	}
	return out
}
