package uplink_test

import (
	"encoding/json"
	"testing"

	"github.com/keys-i/CreekLink/internal/uplink"
)

func decode(t *testing.T, body string) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("failed to decode test body: %v", err)
	}
	return payload
}

func TestExtract_NetworkServerShape(t *testing.T) {
	payload := decode(t, `{
		"end_device_ids": {"device_id": "node-7"},
		"uplink_message": {"decoded_payload": {"water_level_mm": 850, "bucket_tips": 3}}
	}`)

	fields := uplink.Extract(payload)

	if fields.DeviceID != "node-7" {
		t.Errorf("Expected device_id 'node-7', got '%s'", fields.DeviceID)
	}
	if fields.WaterLevelMM == nil || *fields.WaterLevelMM != 850 {
		t.Errorf("Expected water level 850, got %v", fields.WaterLevelMM)
	}
	if fields.BucketTips == nil || *fields.BucketTips != 3 {
		t.Errorf("Expected bucket tips 3, got %v", fields.BucketTips)
	}
}

func TestExtract_FlatDeviceIDFallback(t *testing.T) {
	payload := decode(t, `{"device_id": "x"}`)

	fields := uplink.Extract(payload)

	if fields.DeviceID != "x" {
		t.Errorf("Expected device_id 'x', got '%s'", fields.DeviceID)
	}
	if fields.WaterLevelMM != nil {
		t.Errorf("Expected unknown water level, got %d", *fields.WaterLevelMM)
	}
	if fields.BucketTips != nil {
		t.Errorf("Expected unknown bucket tips, got %d", *fields.BucketTips)
	}
}

func TestExtract_EmptyBody(t *testing.T) {
	fields := uplink.Extract(decode(t, `{}`))

	if fields.DeviceID != uplink.UnknownDevice {
		t.Errorf("Expected '%s', got '%s'", uplink.UnknownDevice, fields.DeviceID)
	}
	if fields.WaterLevelMM != nil || fields.BucketTips != nil {
		t.Error("Expected both measurements to be unknown")
	}
}

func TestExtract_NestedDeviceIDWins(t *testing.T) {
	payload := decode(t, `{
		"end_device_ids": {"device_id": "nested"},
		"device_id": "flat"
	}`)

	fields := uplink.Extract(payload)

	if fields.DeviceID != "nested" {
		t.Errorf("Expected nested device_id to win, got '%s'", fields.DeviceID)
	}
}

func TestExtract_WrongTypedDeviceIDFallsThrough(t *testing.T) {
	payload := decode(t, `{
		"end_device_ids": {"device_id": 42},
		"device_id": "flat"
	}`)

	fields := uplink.Extract(payload)

	if fields.DeviceID != "flat" {
		t.Errorf("Expected fallback to flat device_id, got '%s'", fields.DeviceID)
	}
}

func TestExtract_MissingDecodedPayloadLevel(t *testing.T) {
	payload := decode(t, `{"uplink_message": {"frm_payload": "AQI="}}`)

	fields := uplink.Extract(payload)

	if fields.WaterLevelMM != nil || fields.BucketTips != nil {
		t.Error("Expected unknown measurements when decoded_payload is absent")
	}
}

func TestExtract_ZeroIsNotUnknown(t *testing.T) {
	payload := decode(t, `{
		"uplink_message": {"decoded_payload": {"water_level_mm": 0}}
	}`)

	fields := uplink.Extract(payload)

	if fields.WaterLevelMM == nil {
		t.Fatal("Expected water level 0 to be present, not unknown")
	}
	if *fields.WaterLevelMM != 0 {
		t.Errorf("Expected water level 0, got %d", *fields.WaterLevelMM)
	}
}

func TestExtract_NonNumericMeasurementTreatedAsAbsent(t *testing.T) {
	payload := decode(t, `{
		"uplink_message": {"decoded_payload": {"water_level_mm": "high", "bucket_tips": null}}
	}`)

	fields := uplink.Extract(payload)

	if fields.WaterLevelMM != nil {
		t.Errorf("Expected non-numeric water level to be unknown, got %d", *fields.WaterLevelMM)
	}
	if fields.BucketTips != nil {
		t.Errorf("Expected null bucket tips to be unknown, got %d", *fields.BucketTips)
	}
}
