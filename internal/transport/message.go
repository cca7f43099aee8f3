// internal/transport/message.go
package transport

// Message is one inbound chat message as delivered by the messaging
// gateway webhook.
type Message struct {
	From string `json:"from"`
	Body string `json:"body"`
}
