package domain

import "time"

type SuggestionStatus string

const (
	StatusPending   SuggestionStatus = "pending"
	StatusAccepted  SuggestionStatus = "accepted"
	StatusRejected  SuggestionStatus = "rejected"
	StatusUndecided SuggestionStatus = "undecided"
)

// Terminal: ya no hay transición posible.
func (s SuggestionStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusUndecided
}

const (
	VoteApprove = "✅"
	VoteReject  = "❌"
)

const (
	DefaultAcceptThreshold = 10
	DefaultRejectThreshold = 5
	DefaultVotingWindow    = 72 * time.Hour
)

// Suggestion se identifica por el id del mensaje que la anunció.
type Suggestion struct {
	MessageID  string
	ChannelID  string
	GuildID    string
	AuthorID   string
	AuthorName string
	Body       string
	CreatedAt  time.Time
	Status     SuggestionStatus
}

// ClosesAt es el final de la ventana de votación.
func (s Suggestion) ClosesAt(window time.Duration) time.Time {
	return s.CreatedAt.Add(window)
}

type Decision struct {
	Suggestion Suggestion
	Status     SuggestionStatus
	Upvotes    int
	Downvotes  int
	DecidedAt  time.Time
}

type Thresholds struct {
	Accept int
	Reject int
}

func DefaultThresholds() Thresholds {
	return Thresholds{Accept: DefaultAcceptThreshold, Reject: DefaultRejectThreshold}
}

// Classify aplica los umbrales. Un empate nunca decide.
func Classify(up, down int, th Thresholds) SuggestionStatus {
	switch {
	case up >= th.Accept && up > down:
		return StatusAccepted
	case down >= th.Reject && down > up:
		return StatusRejected
	default:
		return StatusUndecided
	}
}

// VotesFromTally descuenta la reacción semilla del bot del conteo crudo.
func VotesFromTally(raw int) int {
	if raw <= 0 {
		return 0
	}
	return raw - 1
}
