package mistral

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversation turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the chat-completions request body.
type Request struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// Response is the subset of the chat-completions response that is read.
type Response struct {
	Choices []Choice `json:"choices"`
}

type Choice struct {
	Message Message `json:"message"`
}

// Result is the outcome of a successful HTTP exchange.
type Result struct {
	Content string
	// Empty is set when the response carried no choices.
	Empty bool
}
