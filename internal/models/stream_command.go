package models

import "encoding/json"

// StreamCommand is the request body accepted by ksqlDB's /ksql endpoint.
type StreamCommand struct {
	KSQL              string            `json:"ksql"`
	StreamsProperties map[string]string `json:"streamsProperties"`
}

// NewStreamCommand builds a command with an empty (non-nil) property map so it
// serializes as {} rather than null.
func NewStreamCommand(query string) StreamCommand {
	return StreamCommand{KSQL: query, StreamsProperties: map[string]string{}}
}

// AlertRecord is a row emitted by the derived alert stream. Its layout is
// owned by ksqlDB, so the payload is kept as-is.
type AlertRecord struct {
	Payload json.RawMessage `json:"payload"`
}
