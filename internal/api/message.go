package api

// Message is pushed to websocket clients.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

func NewMessage(msgType string, payload interface{}) Message {
	return Message{Type: msgType, Payload: payload}
}
