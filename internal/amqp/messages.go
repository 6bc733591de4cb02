package amqp

import (
	"encoding/json"
	"time"
)

// ExportRecordedMessage announces that an export completed and was written to
// the history ledger.
type ExportRecordedMessage struct {
	EntryID      string    `json:"entryId"`
	TemplateName string    `json:"templateName"`
	Format       string    `json:"format"`
	RecordCount  int       `json:"recordCount"`
	TotalCents   int64     `json:"totalCents"`
	Destination  string    `json:"destination"`
	RecordedAt   time.Time `json:"recordedAt"`
}

// ToJSON converts the message to JSON bytes
func (m *ExportRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExportRecordedMessageFromJSON creates a message from JSON bytes
func ExportRecordedMessageFromJSON(data []byte) (*ExportRecordedMessage, error) {
	var msg ExportRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
