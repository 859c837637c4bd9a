package events

// Topic constants for domain events emitted by the platform.
const (
	TopicCheckoutStarted  = "checkout.started"
	TopicCheckoutCanceled = "checkout.canceled"
	TopicCheckoutFailed   = "checkout.failed"
	TopicPurchaseSettled  = "purchase.settled"
	TopicPurchasePending  = "purchase.pending_review"
)

// DefaultTopics returns the canonical list of topics that support notifications.
func DefaultTopics() []string {
	return []string{
		TopicCheckoutStarted,
		TopicCheckoutCanceled,
		TopicCheckoutFailed,
		TopicPurchaseSettled,
		TopicPurchasePending,
	}
}
