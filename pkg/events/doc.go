// Package events is the in-process event bus of the gateway, built on
// gookit/event. The config store announces saved router settings and the
// router monitor announces probe results; the monitor and the metrics
// collector subscribe.
//
// Listeners run synchronously on the publishing goroutine and must not
// block. Payloads never carry router passwords.
package events
