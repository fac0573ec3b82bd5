package domain

import "time"

const (
	// DEFAULT_RESERVATION_TTL is how long a reservation holds a unit before it expires
	DEFAULT_RESERVATION_TTL = 15 * time.Minute

	// DEFAULT_MAX_ACTIVE_RESERVATIONS_PER_WALLET bounds concurrent holds of a single wallet
	DEFAULT_MAX_ACTIVE_RESERVATIONS_PER_WALLET = 10

	// DEFAULT_MAX_TRAITS_PER_REQUEST bounds a multi-trait reserve call
	DEFAULT_MAX_TRAITS_PER_REQUEST = 10

	// DEFAULT_CLEANUP_INTERVAL is how often the sweeper expires stale reservations
	DEFAULT_CLEANUP_INTERVAL = time.Minute

	// Messaging subjects
	PURCHASE_EVENT_SUBJECT_PREFIX = "purchases"
	PURCHASE_STREAM_SUBJECTS      = "purchases.>"
	CONFIRMATION_SUBJECT_FILTER   = "purchases.confirmations.>"
)
