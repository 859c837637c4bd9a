package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/videosplus/backend-videos/internal/common"
	"github.com/videosplus/backend-videos/internal/events"
)

// EmailNotifier mails the merchant about purchase events so manual-channel
// payments get reviewed promptly.
type EmailNotifier struct {
	Mail         common.EmailSender
	Enabled      bool
	From         string
	To           string
	TopicToggles map[string]bool
}

// Notify implements the events.Notifier interface.
func (n EmailNotifier) Notify(ctx context.Context, event events.DomainEvent) error {
	if !n.Enabled || n.Mail == nil || strings.TrimSpace(n.To) == "" {
		return nil
	}
	if n.TopicToggles != nil {
		if enabled, ok := n.TopicToggles[event.Topic]; ok && !enabled {
			return nil
		}
	}
	switch event.Topic {
	case events.TopicPurchaseSettled, events.TopicPurchasePending:
	default:
		return nil
	}

	payload := map[string]any{}
	if len(event.Payload) > 0 {
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return fmt.Errorf("email notify: decode payload: %w", err)
		}
	}
	return n.Mail.Send(ctx, n.To, subjectFor(event.Topic), bodyFor(event, payload))
}

func subjectFor(topic string) string {
	switch topic {
	case events.TopicPurchaseSettled:
		return "Purchase settled"
	case events.TopicPurchasePending:
		return "Manual payment awaiting review"
	default:
		return "Notification " + topic
	}
}

func bodyFor(event events.DomainEvent, payload map[string]any) string {
	summary := fmt.Sprintf("Event %s occurred at %s.", event.Topic, event.OccurredAt.Format(time.RFC3339))
	if contentID, ok := payload["contentId"].(string); ok && contentID != "" {
		summary += "\nContent: " + contentID
	}
	if buyerID, ok := payload["buyerId"].(string); ok && buyerID != "" {
		summary += "\nBuyer: " + buyerID
	}
	if sessionID, ok := payload["sessionId"].(string); ok && sessionID != "" {
		summary += "\nSession: " + sessionID
	}
	if email, ok := payload["buyerEmail"].(string); ok && email != "" {
		summary += "\nBuyer email: " + email
	}
	return summary
}
