package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"vestadmin/internal/core"
)

// ReleaseSubmittedMessage announces a release transaction that was handed
// to the network. The watcher uses it to look up the receipt.
type ReleaseSubmittedMessage struct {
	ID          string    `json:"id"`
	Contract    string    `json:"contract"`
	Bucket      string    `json:"bucket"`
	TxHash      string    `json:"txHash"`
	ChainID     int64     `json:"chainId"`
	SubmittedAt time.Time `json:"submittedAt"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewReleaseSubmittedMessage(s core.ReleaseSubmission) *ReleaseSubmittedMessage {
	return &ReleaseSubmittedMessage{
		ID:          s.ID,
		Contract:    s.Contract,
		Bucket:      s.Bucket.String(),
		TxHash:      s.TxHash,
		ChainID:     s.ChainID,
		SubmittedAt: s.SubmittedAt,
		Timestamp:   time.Now(),
	}
}

func (m *ReleaseSubmittedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReleaseSubmittedMessageFromJSON decodes a message and checks that it
// names a transaction.
func ReleaseSubmittedMessageFromJSON(data []byte) (*ReleaseSubmittedMessage, error) {
	var msg ReleaseSubmittedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.TxHash == "" {
		return nil, fmt.Errorf("message %q has no tx hash", msg.ID)
	}
	return &msg, nil
}
