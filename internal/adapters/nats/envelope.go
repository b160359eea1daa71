package natsadapter

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Encode wraps a JSON-serializable event in a protobuf Struct for the wire.
func Encode(event any) ([]byte, error) {
	raw, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	var s structpb.Struct
	if err := protojson.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("build envelope: %w", err)
	}
	return proto.Marshal(&s)
}

// Decode unwraps an envelope produced by Encode into out.
func Decode(data []byte, out any) error {
	raw, err := ToJSON(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// ToJSON renders an envelope as JSON for clients that do not speak protobuf.
func ToJSON(data []byte) ([]byte, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("read envelope: %w", err)
	}
	return protojson.Marshal(&s)
}
