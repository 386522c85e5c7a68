package alert

import (
	"context"
	"errors"
	"fmt"

	"github.com/keys-i/CreekLink/internal/config"
)

// ErrDelivery marks SMTP delivery failures. The notifier does not recover
// from them; callers decide what a failed alert means for the request.
var ErrDelivery = errors.New("alert delivery error")

// Message is one composed threshold alert.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Sender delivers a composed alert message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Notifier evaluates the water-level threshold rule and sends one email per
// qualifying reading. It is stateless; concurrent use is fine.
type Notifier struct {
	alertCfg config.Alert
	smtpCfg  config.SMTP
	sender   Sender
}

// NewNotifier creates a new threshold notifier
func NewNotifier(alertCfg config.Alert, smtpCfg config.SMTP, sender Sender) *Notifier {
	return &Notifier{
		alertCfg: alertCfg,
		smtpCfg:  smtpCfg,
		sender:   sender,
	}
}

// MaybeSendThresholdAlert sends an alert when the reported water level meets
// or exceeds the configured threshold. It is a no-op when the level is
// unknown, below the threshold, or SMTP is not configured; none of those is
// an error.
func (n *Notifier) MaybeSendThresholdAlert(ctx context.Context, deviceID string, waterLevelMM *int32) error {
	if waterLevelMM == nil {
		return nil
	}

	if *waterLevelMM < n.alertCfg.WaterLevelThresholdMM {
		return nil
	}

	if !n.smtpCfg.Configured() {
		// Alerts disabled / not configured
		return nil
	}

	msg := Message{
		From:    n.alertCfg.EmailFrom,
		To:      n.alertCfg.EmailTo,
		Subject: fmt.Sprintf("[CreekLink] High Water Level Alert for Device %s", deviceID),
		Body: fmt.Sprintf(
			"High water level detected.\n\nDevice: %s\nWater level: %d mm\nThreshold: %d mm\n",
			deviceID, *waterLevelMM, n.alertCfg.WaterLevelThresholdMM,
		),
	}

	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	return nil
}
