package types

// SubscriptionStatus mirrors the provider's fixed status vocabulary.
type SubscriptionStatus string

const (
	SubscriptionStatusActive            SubscriptionStatus = "active"
	SubscriptionStatusTrialing          SubscriptionStatus = "trialing"
	SubscriptionStatusPastDue           SubscriptionStatus = "past_due"
	SubscriptionStatusUnpaid            SubscriptionStatus = "unpaid"
	SubscriptionStatusCanceled          SubscriptionStatus = "canceled"
	SubscriptionStatusIncomplete        SubscriptionStatus = "incomplete"
	SubscriptionStatusIncompleteExpired SubscriptionStatus = "incomplete_expired"
	SubscriptionStatusPaused            SubscriptionStatus = "paused"
)

// CollectionMethod of a subscription.
type CollectionMethod string

const (
	CollectionMethodChargeAutomatically CollectionMethod = "charge_automatically"
	CollectionMethodSendInvoice         CollectionMethod = "send_invoice"
)

// ProrationBehavior applied when a subscription is created or changed.
type ProrationBehavior string

const (
	ProrationBehaviorNone             ProrationBehavior = "none"
	ProrationBehaviorCreateProrations ProrationBehavior = "create_prorations"
)

const (
	// MetadataKeyMigratedTo records the target subscription id on the source.
	MetadataKeyMigratedTo = "migrated_to"
	// MetadataKeyMigratedAt records when the source was marked.
	MetadataKeyMigratedAt = "migrated_at"
)

// MigratedAtLayout formats the migrated_at metadata value.
const MigratedAtLayout = "2006-01-02 15:04:05"
