package alert_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/keys-i/CreekLink/internal/alert"
	"github.com/keys-i/CreekLink/internal/config"
)

type fakeSender struct {
	sent []alert.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg alert.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func fullSMTP() config.SMTP {
	return config.SMTP{
		Host:     "smtp.example.com",
		Port:     587,
		User:     "alerts",
		Password: "secret",
	}
}

func alertCfg() config.Alert {
	return config.Alert{
		EmailFrom:             "creeklink@example.com",
		EmailTo:               "you@example.com",
		WaterLevelThresholdMM: 800,
	}
}

func level(mm int32) *int32 {
	return &mm
}

func TestMaybeSendThresholdAlert_UnknownLevel(t *testing.T) {
	sender := &fakeSender{}
	n := alert.NewNotifier(alertCfg(), fullSMTP(), sender)

	if err := n.MaybeSendThresholdAlert(context.Background(), "node-1", nil); err != nil {
		t.Fatalf("Expected no error for unknown level, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Errorf("Expected no email attempt, got %d", len(sender.sent))
	}
}

func TestMaybeSendThresholdAlert_BelowThreshold(t *testing.T) {
	sender := &fakeSender{}
	n := alert.NewNotifier(alertCfg(), fullSMTP(), sender)

	if err := n.MaybeSendThresholdAlert(context.Background(), "node-1", level(799)); err != nil {
		t.Fatalf("Expected no error below threshold, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Errorf("Expected no email attempt, got %d", len(sender.sent))
	}
}

func TestMaybeSendThresholdAlert_ThresholdIsInclusive(t *testing.T) {
	sender := &fakeSender{}
	n := alert.NewNotifier(alertCfg(), fullSMTP(), sender)

	if err := n.MaybeSendThresholdAlert(context.Background(), "node-1", level(800)); err != nil {
		t.Fatalf("Expected delivery at exact threshold, got %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("Expected exactly one email attempt, got %d", len(sender.sent))
	}
}

func TestMaybeSendThresholdAlert_MessageContent(t *testing.T) {
	sender := &fakeSender{}
	n := alert.NewNotifier(alertCfg(), fullSMTP(), sender)

	if err := n.MaybeSendThresholdAlert(context.Background(), "node-7", level(850)); err != nil {
		t.Fatalf("Expected delivery, got %v", err)
	}

	msg := sender.sent[0]
	if msg.From != "creeklink@example.com" || msg.To != "you@example.com" {
		t.Errorf("Unexpected addressing: from=%s to=%s", msg.From, msg.To)
	}
	if !strings.Contains(msg.Subject, "node-7") {
		t.Errorf("Expected subject to contain device id, got '%s'", msg.Subject)
	}
	if !strings.Contains(msg.Body, "850 mm") {
		t.Errorf("Expected body to contain measured level, got '%s'", msg.Body)
	}
	if !strings.Contains(msg.Body, "800 mm") {
		t.Errorf("Expected body to contain threshold, got '%s'", msg.Body)
	}
	if !strings.Contains(msg.Body, "node-7") {
		t.Errorf("Expected body to contain device id, got '%s'", msg.Body)
	}
}

func TestMaybeSendThresholdAlert_PartialSMTPDisablesAlerting(t *testing.T) {
	partials := map[string]config.SMTP{
		"no host":     {Port: 587, User: "alerts", Password: "secret"},
		"no user":     {Host: "smtp.example.com", Port: 587, Password: "secret"},
		"no password": {Host: "smtp.example.com", Port: 587, User: "alerts"},
	}

	for name, smtpCfg := range partials {
		t.Run(name, func(t *testing.T) {
			sender := &fakeSender{}
			n := alert.NewNotifier(alertCfg(), smtpCfg, sender)

			if err := n.MaybeSendThresholdAlert(context.Background(), "node-1", level(900)); err != nil {
				t.Fatalf("Expected no error when alerting is unconfigured, got %v", err)
			}
			if len(sender.sent) != 0 {
				t.Errorf("Expected no email attempt, got %d", len(sender.sent))
			}
		})
	}
}

func TestMaybeSendThresholdAlert_DeliveryFailurePropagates(t *testing.T) {
	sender := &fakeSender{err: errors.New("connection refused")}
	n := alert.NewNotifier(alertCfg(), fullSMTP(), sender)

	err := n.MaybeSendThresholdAlert(context.Background(), "node-1", level(900))
	if err == nil {
		t.Fatal("Expected delivery failure to propagate")
	}
	if !errors.Is(err, alert.ErrDelivery) {
		t.Errorf("Expected ErrDelivery, got %v", err)
	}
}
