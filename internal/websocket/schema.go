package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionAnswer    Action = "answer"
	ActionNext      Action = "next"
	ActionSubmit    Action = "submit"
	ActionViolation Action = "violation"
	ActionState     Action = "state"
	ActionReview    Action = "review"
	ActionBack      Action = "back"
	ActionPing      Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// AnswerRequest saves a single answer. Index addresses the question within
// the attempt; exactly one of Choice, Order or Text is set depending on the
// question type. For reorder questions Order lists positions as shown.
type AnswerRequest struct {
	Action Action  `json:"action"`
	Index  int     `json:"index"`
	Choice *int    `json:"choice,omitempty"`
	Order  []int   `json:"order,omitempty"`
	Text   *string `json:"text,omitempty"`
}

// NextRequest advances past the current question once it is answered.
type NextRequest struct {
	Action Action `json:"action"`
}

// SubmitRequest finishes and grades the attempt early.
type SubmitRequest struct {
	Action Action `json:"action"`
}

// ViolationRequest reports an anti-cheat signal from the client.
type ViolationRequest struct {
	Action Action `json:"action"`
	Kind   string `json:"kind"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError    Event = "error"
	EventSuccess  Event = "success"
	EventState    Event = "state"
	EventAdvanced Event = "advanced"
	EventWarning  Event = "warning"
	EventExpelled Event = "expelled"
	EventGraded   Event = "graded"
	EventReview   Event = "review"
	EventPong     Event = "pong"
)

type SuccessResponse struct {
	Event  Event  `json:"event"`
	Status string `json:"status"`
}

type StateResponse struct {
	Event    Event `json:"event"`
	Snapshot any   `json:"snapshot"`
}

type AdvancedResponse struct {
	Event Event `json:"event"`
	Index int   `json:"index"`
	Auto  bool  `json:"auto"`
}

type WarningResponse struct {
	Event      Event  `json:"event"`
	Kind       string `json:"kind"`
	Violations int    `json:"violations"`
}

type ExpelledResponse struct {
	Event Event  `json:"event"`
	Kind  string `json:"kind"`
}

type GradedResponse struct {
	Event  Event `json:"event"`
	Result any   `json:"result"`
	Auto   bool  `json:"auto"`
}

type ReviewResponse struct {
	Event   Event `json:"event"`
	Entries any   `json:"entries"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
