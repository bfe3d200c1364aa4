// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

// Package outbox queues writes made while offline and replays them when
// connectivity returns.
//
// Writes (reviews, favorites) are stored durably in BadgerDB at enqueue
// time and acknowledged immediately. Each entry carries a generated
// idempotency key that is sent as the Idempotency-Key header on every
// replay attempt, so a request that was delivered but not confirmed is
// safe to send again.
//
// Replayer drives delivery: it reacts to online transitions from the
// connectivity monitor and also sweeps on a timer. Failed attempts back
// off exponentially; entries that exhaust their attempt budget are
// retired instead of blocking the queue forever.
package outbox
