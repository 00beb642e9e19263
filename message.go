package wstap

// UnknownURL is the URL placeholder for frames whose connection was opened
// before this listener attached, so no creation event was observed.
const UnknownURL = "Unknown URL"

// Message is a single captured WebSocket frame.
type Message struct {
	Payload   string  `json:"payload"`
	RequestID string  `json:"request_id"`
	Timestamp float64 `json:"timestamp"`
	URL       string  `json:"url"`
	Received  bool    `json:"received"`
}
