package stream

import "github.com/matt-g-everett/chartling/chartling"

// Status message types sent by the remote renderer.
const (
	StatusReady = "ready"
	StatusAck   = "ack"
	StatusError = "error"
)

// StatusMessage is sent by the remote renderer on the status topic.
type StatusMessage struct {
	Type  string `json:"type"`
	AckID uint64 `json:"ackID,omitempty"`
	Error string `json:"error,omitempty"`
}

// AnimateMessage asks the remote renderer to play a transition. The renderer
// acknowledges it with the same AckID once the transition has finished.
type AnimateMessage struct {
	AckID   uint64            `json:"ackID"`
	Request chartling.Request `json:"request"`
}
