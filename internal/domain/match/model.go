package match

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a match.
type Status string

const (
	StatusScheduled    Status = "SCHEDULED"
	StatusToReschedule Status = "TO_RESCHEDULE"
	StatusInProgress   Status = "IN_PROGRESS"
	StatusCompleted    Status = "COMPLETED"
	StatusCancelled    Status = "CANCELLED"
)

var AllStatuses = map[Status]struct{}{
	StatusScheduled:    {},
	StatusToReschedule: {},
	StatusInProgress:   {},
	StatusCompleted:    {},
	StatusCancelled:    {},
}

// Side identifies one of the two participants of a match.
type Side string

const (
	SideHome Side = "HOME"
	SideAway Side = "AWAY"
)

func ParseSide(value string) (Side, bool) {
	switch Side(strings.ToUpper(strings.TrimSpace(value))) {
	case SideHome:
		return SideHome, true
	case SideAway:
		return SideAway, true
	default:
		return "", false
	}
}

// Match is one scheduled or played contest between two sides.
type Match struct {
	ID             string
	HomeClubID     string
	AwayClubID     string
	HomeTeamID     string
	AwayTeamID     string
	Status         Status
	ScheduledAt    time.Time
	HomeScore      int
	AwayScore      int
	PeriodCount    int
	PeriodDuration time.Duration
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (m Match) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("match id is required")
	}
	if m.HomeClubID == "" || m.AwayClubID == "" {
		return fmt.Errorf("match requires both home and away clubs")
	}
	if m.HomeClubID == m.AwayClubID && m.HomeTeamID == m.AwayTeamID {
		return fmt.Errorf("match sides must differ")
	}
	if _, ok := AllStatuses[m.Status]; !ok {
		return fmt.Errorf("invalid match status: %s", m.Status)
	}
	if m.PeriodCount < 1 {
		return fmt.Errorf("match period count must be at least 1")
	}

	return nil
}

// ScoreFor returns the denormalized score counter for one side.
func (m Match) ScoreFor(side Side) int {
	if side == SideHome {
		return m.HomeScore
	}
	return m.AwayScore
}

// ClubFor returns the club fielding one side.
func (m Match) ClubFor(side Side) string {
	if side == SideHome {
		return m.HomeClubID
	}
	return m.AwayClubID
}

func (m Match) IsTerminal() bool {
	return m.Status == StatusCompleted || m.Status == StatusCancelled
}

// TransitionOp is a lifecycle operation requested on a match.
type TransitionOp string

const (
	OpStart      TransitionOp = "start"
	OpEnd        TransitionOp = "end"
	OpCancel     TransitionOp = "cancel"
	OpReschedule TransitionOp = "reschedule"
)

func ParseTransitionOp(value string) (TransitionOp, bool) {
	switch TransitionOp(strings.ToLower(strings.TrimSpace(value))) {
	case OpStart:
		return OpStart, true
	case OpEnd:
		return OpEnd, true
	case OpCancel:
		return OpCancel, true
	case OpReschedule:
		return OpReschedule, true
	default:
		return "", false
	}
}

// CanTransition reports whether op is legal from the current status and, when
// it is not, the reason shown to the operator.
func CanTransition(current Status, op TransitionOp) (bool, string) {
	switch op {
	case OpStart:
		switch current {
		case StatusScheduled, StatusToReschedule:
			return true, ""
		case StatusInProgress:
			return false, "match is already in progress"
		default:
			return false, fmt.Sprintf("match cannot start from status %s", current)
		}
	case OpEnd:
		switch current {
		case StatusCompleted:
			return false, "match is already completed"
		case StatusCancelled:
			return false, "cancelled match cannot be ended"
		default:
			return true, ""
		}
	case OpCancel:
		switch current {
		case StatusCompleted, StatusCancelled:
			return false, fmt.Sprintf("match cannot be cancelled from status %s", current)
		default:
			return true, ""
		}
	case OpReschedule:
		switch current {
		case StatusInProgress, StatusCompleted:
			return false, fmt.Sprintf("match cannot be rescheduled from status %s", current)
		default:
			return true, ""
		}
	default:
		return false, fmt.Sprintf("unknown transition %q", op)
	}
}
