// Package notify delivers high-severity alerts out of band.
package notify

import (
	"context"
	"fmt"

	"github.com/bleinats/esteticacarro-core-go/internal/domain"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// TwilioNotifier sends alert SMS through the Twilio API.
type TwilioNotifier struct {
	client *twilio.RestClient
	from   string
	logger *zap.Logger
}

// NewTwilioNotifier creates a notifier with the given credentials.
func NewTwilioNotifier(accountSID, authToken, from string, logger *zap.Logger) *TwilioNotifier {
	return &TwilioNotifier{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from:   from,
		logger: logger,
	}
}

// Notify sends one alert as an SMS.
func (n *TwilioNotifier) Notify(_ context.Context, phone string, alert domain.SystemAlert) error {
	body := alert.Message
	if alert.EstimatedImpact > 0 {
		body = fmt.Sprintf("%s (impacto estimado: R$ %.2f)", alert.Message, alert.EstimatedImpact)
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(n.from)
	params.SetBody(body)

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		n.logger.Warn("twilio: send failed",
			zap.String("alert_type", alert.Type),
			zap.Error(err),
		)
		return err
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	n.logger.Info("twilio: alert sent",
		zap.String("alert_type", alert.Type),
		zap.String("sid", sid),
	)
	return nil
}

// Noop discards notifications. Used when Twilio is not configured.
type Noop struct{}

// Notify implements port.AlertNotifier and does nothing.
func (Noop) Notify(context.Context, string, domain.SystemAlert) error { return nil }
