package models

// NewConversationID is the sentinel identifier for a conversation that has not
// been persisted server-side yet.
const NewConversationID int64 = -1

// Role identifies the sender of a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// NormalizeRole maps arbitrary sender tags from the history API onto the
// user/assistant enum. Anything that is not exactly "user" is an assistant
// message.
func NormalizeRole(sender string) Role {
	if sender == string(RoleUser) {
		return RoleUser
	}
	return RoleAssistant
}

// Message is a single chat message. Messages are immutable once appended and
// ordered by insertion.
type Message struct {
	Sender Role   `json:"sender"`
	Text   string `json:"text"`
}

// Conversation is a titled, ordered sequence of messages identified by a
// server-assigned id (or NewConversationID before the first exchange lands).
type Conversation struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title,omitempty"`
	Messages []Message `json:"messages"`
}

// SessionState describes the lifecycle of the active chat session
type SessionState string

const (
	SessionNew            SessionState = "new"
	SessionPendingReply   SessionState = "pending_reply"
	SessionEstablished    SessionState = "established"
	SessionLoadingHistory SessionState = "loading_history"
	SessionError          SessionState = "error"
)

// GenerateRequest is the payload sent to the remote completion service
// @Description Completion request carrying the full prior history of the conversation
type GenerateRequest struct {
	// Account identifier of the signed-in user
	Email string `json:"email" example:"duck@sophistic.dev"`
	// The user message being submitted
	Message string `json:"message" example:"Summarize this window"`
	// True when the conversation has no server record yet
	NewConvo bool `json:"new_convo"`
	// Server-assigned conversation id, or -1 for a new conversation
	ConvoID int64 `json:"convo_id" example:"42"`
	// Upstream provider handling the request
	Provider string `json:"provider" example:"openai"`
	// Model identifier within the provider
	Model string `json:"model" example:"gpt-4o-mini"`
	// Serialized prior messages, oldest first
	History []Message `json:"history"`
	// Optional user notes forwarded as extra context
	Notes string `json:"notes,omitempty"`
	// Optional agent routing
	AgentID      string `json:"agent_id,omitempty"`
	AgentContext string `json:"agent_context,omitempty"`
}

// GenerateResponse is the completion service reply
type GenerateResponse struct {
	Response string `json:"response"`
	Title    string `json:"title,omitempty"`
	ConvoID  int64  `json:"convo_id"`
}

// HistoryRecord is one message as returned by the conversation-history API.
// Sender tags are free-form upstream and normalized on ingest.
type HistoryRecord struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

// SubmitRequest is the local API payload for submitting a chat message
type SubmitRequest struct {
	Message string `json:"message"`
	Notes   string `json:"notes,omitempty"`
}

// SubmitResponse reports the outcome of a submit, including the (possibly
// newly adopted) conversation identity.
type SubmitResponse struct {
	ConvoID  int64     `json:"convo_id"`
	Title    string    `json:"title,omitempty"`
	Reply    Message   `json:"reply"`
	Messages []Message `json:"messages"`
	Failed   bool      `json:"failed"`
}

// ModelOption is one entry of the static model picker
type ModelOption struct {
	Label    string `json:"label"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// ModelCatalog is the fixed list of selectable models. Selection is per
// process and never persisted.
var ModelCatalog = []ModelOption{
	{Label: "GPT-4o", Provider: "openai", Model: "gpt-4o"},
	{Label: "GPT-4o Mini", Provider: "openai", Model: "gpt-4o-mini"},
	{Label: "Gemini 2.0 Flash", Provider: "gemini", Model: "gemini-2.0-flash"},
	{Label: "Claude Sonnet", Provider: "anthropic", Model: "claude-sonnet-4-20250514"},
}

// DefaultModel is selected until the user picks another entry
var DefaultModel = ModelCatalog[1]

// FallbackReply is appended locally when a completion request fails, in place
// of an assistant response. The optimistic user message is never rolled back.
const FallbackReply = "Something went wrong. Please try again."
