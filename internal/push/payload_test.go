// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package push

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestParsePayloadDefaults(t *testing.T) {
	n := ParsePayload(nil)
	if n.Title != DefaultTitle {
		t.Errorf("expected default title, got %q", n.Title)
	}
	if n.Body != DefaultBody {
		t.Errorf("expected default Thai body, got %q", n.Body)
	}
	if n.Icon != DefaultIcon || n.Badge != DefaultBadge {
		t.Errorf("expected default icons, got %q / %q", n.Icon, n.Badge)
	}
	if len(n.Actions) != 2 {
		t.Fatalf("expected view and dismiss actions, got %v", n.Actions)
	}
	if n.Actions[0].Title != "ดูรายละเอียด" || n.Actions[1].Title != "ปิด" {
		t.Errorf("expected Thai action labels, got %v", n.Actions)
	}
	if n.Actions[1].Action != "dismiss" {
		t.Errorf("dismiss action id = %q, want dismiss", n.Actions[1].Action)
	}
	if len(n.Vibrate) == 0 {
		t.Error("expected a vibration pattern")
	}
	if n.Timestamp.IsZero() {
		t.Error("expected an arrival timestamp")
	}
	if n.PrimaryKey != 1 {
		t.Errorf("PrimaryKey = %d, want fallback 1", n.PrimaryKey)
	}
}

func TestParsePayloadIDBecomesPrimaryKey(t *testing.T) {
	n := ParsePayload([]byte(`{"title":"รีวิวใหม่","id":42}`))
	if n.PrimaryKey != 42 {
		t.Errorf("PrimaryKey = %d, want 42", n.PrimaryKey)
	}

	data, err := json.Marshal(n)
	if err != nil {
		t.Fatal(err)
	}
	var decoded Notification
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.PrimaryKey != 42 {
		t.Errorf("decoded PrimaryKey = %d, want 42", decoded.PrimaryKey)
	}
}

func TestParsePayloadJSONOverridesDefaults(t *testing.T) {
	n := ParsePayload([]byte(`{"title":"รีวิวใหม่","body":"มีรีวิวใหม่สำหรับ Dune","url":"/movies/438631"}`))
	if n.Title != "รีวิวใหม่" {
		t.Errorf("expected overridden title, got %q", n.Title)
	}
	if n.Body != "มีรีวิวใหม่สำหรับ Dune" {
		t.Errorf("expected overridden body, got %q", n.Body)
	}
	if n.URL != "/movies/438631" {
		t.Errorf("expected url to carry over, got %q", n.URL)
	}
	if n.Icon != DefaultIcon {
		t.Errorf("unset fields must keep defaults, got %q", n.Icon)
	}
}

func TestParsePayloadPartialJSONKeepsDefaults(t *testing.T) {
	n := ParsePayload([]byte(`{"body":"เฉพาะเนื้อหา"}`))
	if n.Title != DefaultTitle {
		t.Errorf("expected default title, got %q", n.Title)
	}
	if n.Body != "เฉพาะเนื้อหา" {
		t.Errorf("expected overridden body, got %q", n.Body)
	}
}

func TestParsePayloadMalformedBecomesBody(t *testing.T) {
	n := ParsePayload([]byte("plain text notification"))
	if n.Title != DefaultTitle {
		t.Errorf("expected default title, got %q", n.Title)
	}
	if n.Body != "plain text notification" {
		t.Errorf("expected raw text as body, got %q", n.Body)
	}
}

func TestClickTarget(t *testing.T) {
	withURL := Notification{URL: "/anime/21"}
	if target, open := ClickTarget(ActionView, withURL); !open || target != "/anime/21" {
		t.Errorf("expected /anime/21, got %q (%v)", target, open)
	}

	// No URL falls back to the app root, including for the default
	// (empty) action of a plain notification tap.
	if target, open := ClickTarget("", Notification{}); !open || target != "/" {
		t.Errorf("expected /, got %q (%v)", target, open)
	}

	if _, open := ClickTarget(ActionDismiss, withURL); open {
		t.Error("dismiss must not open anything")
	}
}
