// Package uplink extracts reading fields from decoded webhook bodies.
//
// The network server posts TTN-style documents, but nodes in the field have
// shipped flatter shapes too, so every lookup falls back rather than erring:
// a missing or wrong-typed field is simply absent.
package uplink

// UnknownDevice is stored when no device identifier can be found in the body.
const UnknownDevice = "unknown-device"

// Fields holds the values extracted from one webhook body. Nil pointers mean
// the decoded payload did not carry the field.
type Fields struct {
	DeviceID     string
	WaterLevelMM *int32
	BucketTips   *int32
}

// Extract pulls the device id and decoded measurements out of a webhook
// body. The device id is taken from end_device_ids.device_id, then a
// top-level device_id, then UnknownDevice. Measurements come from
// uplink_message.decoded_payload; an absent path yields absent fields.
func Extract(payload map[string]any) Fields {
	fields := Fields{DeviceID: UnknownDevice}

	if id, ok := stringAt(payload, "end_device_ids", "device_id"); ok {
		fields.DeviceID = id
	} else if id, ok := stringAt(payload, "device_id"); ok {
		fields.DeviceID = id
	}

	decoded := mapAt(payload, "uplink_message", "decoded_payload")
	fields.WaterLevelMM = intField(decoded, "water_level_mm")
	fields.BucketTips = intField(decoded, "bucket_tips")

	return fields
}

// mapAt walks nested objects along path, returning an empty map as soon as
// any level is missing or not an object.
func mapAt(m map[string]any, path ...string) map[string]any {
	current := m
	for _, key := range path {
		next, ok := current[key].(map[string]any)
		if !ok {
			return map[string]any{}
		}
		current = next
	}
	return current
}

func stringAt(m map[string]any, path ...string) (string, bool) {
	parent := mapAt(m, path[:len(path)-1]...)
	s, ok := parent[path[len(path)-1]].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// intField reads an optional integer. encoding/json decodes all numbers as
// float64; anything else counts as absent.
func intField(m map[string]any, key string) *int32 {
	n, ok := m[key].(float64)
	if !ok {
		return nil
	}
	value := int32(n)
	return &value
}
