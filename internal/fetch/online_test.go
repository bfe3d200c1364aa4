// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

package fetch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMonitorStartsOnline(t *testing.T) {
	m := NewMonitor(MonitorOptions{})
	if !m.Online() {
		t.Error("a fresh monitor must report online")
	}
}

func TestMonitorFlipsOfflineAtThreshold(t *testing.T) {
	m := NewMonitor(MonitorOptions{OfflineThreshold: 3})

	m.MarkFailure()
	m.MarkFailure()
	if !m.Online() {
		t.Fatal("monitor must stay online below the threshold")
	}

	m.MarkFailure()
	if m.Online() {
		t.Fatal("monitor must flip offline at the threshold")
	}

	m.MarkSuccess()
	if !m.Online() {
		t.Fatal("a success must restore online status")
	}
}

func TestMonitorSuccessResetsFailureStreak(t *testing.T) {
	m := NewMonitor(MonitorOptions{OfflineThreshold: 3})

	m.MarkFailure()
	m.MarkFailure()
	m.MarkSuccess()
	m.MarkFailure()
	m.MarkFailure()

	if !m.Online() {
		t.Error("non-consecutive failures must not flip the monitor offline")
	}
}

func TestMonitorNotifiesSubscribersOnTransitions(t *testing.T) {
	m := NewMonitor(MonitorOptions{OfflineThreshold: 2})

	var mu sync.Mutex
	var events []bool
	m.Subscribe(func(online bool) {
		mu.Lock()
		events = append(events, online)
		mu.Unlock()
	})

	m.MarkFailure()
	m.MarkFailure()
	m.MarkFailure() // already offline, no extra event
	m.MarkSuccess()
	m.MarkSuccess() // already online, no extra event

	mu.Lock()
	defer mu.Unlock()
	want := []bool{false, true}
	if len(events) != len(want) {
		t.Fatalf("expected %d transition events, got %d (%v)", len(want), len(events), events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d: expected %v, got %v", i, want[i], events[i])
		}
	}
}

func TestMonitorProbeRestoresOnline(t *testing.T) {
	probeErr := errors.New("still down")
	var mu sync.Mutex
	fail := true

	m := NewMonitor(MonitorOptions{
		OfflineThreshold: 1,
		ProbeInterval:    10 * time.Millisecond,
		Probe: func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			if fail {
				return probeErr
			}
			return nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = m.Run(ctx)
	}()

	m.MarkFailure()
	if m.Online() {
		t.Fatal("monitor should be offline")
	}

	// Probes fail for a while, then the network comes back.
	time.Sleep(40 * time.Millisecond)
	if m.Online() {
		t.Fatal("failing probes must not restore online status")
	}

	mu.Lock()
	fail = false
	mu.Unlock()

	deadline := time.Now().Add(time.Second)
	for !m.Online() {
		if time.Now().After(deadline) {
			t.Fatal("expected a successful probe to restore online status")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	<-done
}
