// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package push

import (
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/reelrate/edge/internal/metrics"
)

// Default notification content, in Thai like the ReelRate UI.
const (
	DefaultTitle = "ReelRate"
	DefaultBody  = "คุณมีการแจ้งเตือนใหม่"
	DefaultIcon  = "/icons/icon-192x192.png"
	DefaultBadge = "/icons/icon-96x96.png"
)

// Action identifiers a client can send back after showing a
// notification.
const (
	ActionView    = "view"
	ActionDismiss = "dismiss"
)

// Action is one button on a notification.
type Action struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

// DefaultActions returns the standard view/dismiss buttons.
func DefaultActions() []Action {
	return []Action{
		{Action: ActionView, Title: "ดูรายละเอียด"},
		{Action: ActionDismiss, Title: "ปิด"},
	}
}

// DefaultVibrate returns the vibration pattern attached to every
// notification.
func DefaultVibrate() []int {
	return []int{200, 100, 200}
}

// Notification is a display-ready push notification.
type Notification struct {
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Icon       string    `json:"icon"`
	Badge      string    `json:"badge"`
	URL        string    `json:"url,omitempty"`
	Tag        string    `json:"tag,omitempty"`
	Vibrate    []int     `json:"vibrate"`
	Timestamp  time.Time `json:"timestamp"`
	PrimaryKey int       `json:"primary_key"`
	Actions    []Action  `json:"actions"`
}

// defaultNotification returns a Notification carrying only defaults.
func defaultNotification() Notification {
	return Notification{
		Title:      DefaultTitle,
		Body:       DefaultBody,
		Icon:       DefaultIcon,
		Badge:      DefaultBadge,
		Vibrate:    DefaultVibrate(),
		Timestamp:  time.Now(),
		PrimaryKey: 1,
		Actions:    DefaultActions(),
	}
}

// ParsePayload turns a raw push payload into a display-ready
// Notification.
//
// A JSON object payload overrides the defaults field by field. Anything
// that does not parse as JSON is used verbatim as the body, so malformed
// payloads still produce a visible notification instead of an error.
func ParsePayload(raw []byte) Notification {
	n := defaultNotification()

	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		metrics.PushPayloads.WithLabelValues("empty").Inc()
		return n
	}

	var overlay struct {
		Title string `json:"title"`
		Body  string `json:"body"`
		Icon  string `json:"icon"`
		Badge string `json:"badge"`
		URL   string `json:"url"`
		Tag   string `json:"tag"`
		ID    int    `json:"id"`
	}
	if err := json.Unmarshal(raw, &overlay); err != nil {
		n.Body = trimmed
		metrics.PushPayloads.WithLabelValues("malformed").Inc()
		return n
	}

	if overlay.Title != "" {
		n.Title = overlay.Title
	}
	if overlay.Body != "" {
		n.Body = overlay.Body
	}
	if overlay.Icon != "" {
		n.Icon = overlay.Icon
	}
	if overlay.Badge != "" {
		n.Badge = overlay.Badge
	}
	n.URL = overlay.URL
	n.Tag = overlay.Tag
	if overlay.ID != 0 {
		n.PrimaryKey = overlay.ID
	}
	metrics.PushPayloads.WithLabelValues("ok").Inc()
	return n
}

// ClickTarget resolves a notification action to the URL the client should
// open. Dismiss actions open nothing.
func ClickTarget(action string, n Notification) (string, bool) {
	if action == ActionDismiss {
		return "", false
	}
	if n.URL != "" {
		return n.URL, true
	}
	return "/", true
}
