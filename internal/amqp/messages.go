package amqp

import (
	"encoding/json"
	"time"
)

// DatasetReloadedMessage announces that the dashboard re-read its dataset.
type DatasetReloadedMessage struct {
	Path      string    `json:"path"`
	Rows      int       `json:"rows"`
	Timestamp time.Time `json:"timestamp"`
}

func NewDatasetReloadedMessage(path string, rows int) *DatasetReloadedMessage {
	return &DatasetReloadedMessage{
		Path:      path,
		Rows:      rows,
		Timestamp: time.Now().UTC(),
	}
}

func (m *DatasetReloadedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
