package grpc

import (
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// codecName is the content-subtype clients send to speak JSON instead of
// protobuf, e.g. "application/grpc+json".
const codecName = "json"

var errNilMessage = errors.New("nil message")

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec carries the hand-written request and response structs of the
// simulation service as JSON bodies.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("grpc json codec: marshal: %w", errNilMessage)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("grpc json codec: marshal %T: %w", v, err)
	}
	return b, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if v == nil {
		return fmt.Errorf("grpc json codec: unmarshal: %w", errNilMessage)
	}
	// Empty frames decode to the zero message.
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("grpc json codec: unmarshal %T: %w", v, err)
	}
	return nil
}

func (jsonCodec) Name() string { return codecName }
