// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

// Package supervisor builds the suture service tree that keeps the
// long-running pieces alive: the HTTP server, the push hub, the
// connectivity monitor, the outbox replayer, and the maintenance
// tickers. Supervisor events are logged through sutureslog into the
// zerolog-backed slog handler.
package supervisor
