package events

import "time"

// Event names.
const (
	EventRouterConfigSaved    = "router.config.saved"
	EventRouterProbeCompleted = "router.probe.completed"
)

// payloadKey is the gookit event parameter that holds the typed payload.
const payloadKey = "payload"

// RouterConfigSaved is published after the stored router connection is
// replaced.
type RouterConfigSaved struct {
	RouterType string
	Endpoint   string
	UpdatedAt  time.Time
}

// RouterProbeCompleted is published after each monitor probe.
type RouterProbeCompleted struct {
	RouterType string
	Endpoint   string
	Success    bool

	// Status is the router HTTP status, or 0 when the router was not reached.
	Status    int
	Latency   time.Duration
	Timestamp time.Time
}
