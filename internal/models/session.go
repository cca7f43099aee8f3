package models

// SessionState is the per-user position in the conversation flow.
type SessionState string

const (
	StateIdle                     SessionState = "idle"
	StateAwaitingProduct          SessionState = "awaitingProduct"
	StateAwaitingComparisonFirst  SessionState = "awaitingComparisonFirst"
	StateAwaitingComparisonSecond SessionState = "awaitingComparisonSecond"
)

// Valid reports whether s is one of the known conversation states.
// Sessions found in any other state are reset to idle by the engine.
func (s SessionState) Valid() bool {
	switch s {
	case StateIdle, StateAwaitingProduct, StateAwaitingComparisonFirst, StateAwaitingComparisonSecond:
		return true
	}
	return false
}

// Context keys used by the conversation engine.
const (
	ContextFirstProduct = "firstProduct"
)

// Session is the per-user conversational state tracked between messages.
// One per user, created lazily on first contact, process-lifetime only.
type Session struct {
	UserID  string
	State   SessionState
	Context map[string]string
}

// NewSession returns a fresh idle session for userID.
func NewSession(userID string) *Session {
	return &Session{
		UserID:  userID,
		State:   StateIdle,
		Context: make(map[string]string),
	}
}

// Command is the coarse intent extracted from one message.
type Command string

const (
	CommandAnalyze          Command = "analyze"
	CommandStats            Command = "stats"
	CommandAskForProduct    Command = "askForProduct"
	CommandInvalidProduct   Command = "invalidProduct"
	CommandAskForComparison Command = "askForComparison"
	CommandHelp             Command = "help"
	CommandUnknown          Command = "unknown"
)

// Intent is the transient result of interpreting one message. Never
// persisted.
type Intent struct {
	Command Command
	// ProductID is set for analyze/stats intents.
	ProductID string
	// SecondProductID is set for an inline !compare with two ids.
	SecondProductID string
	// HelpTopic is set for a "!help <topic>" command.
	HelpTopic string
}
