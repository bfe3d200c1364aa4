// ReelRate Edge - Offline-First Caching Gateway for Movie & Anime Reviews
// Copyright 2026 ReelRate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrate/edge

// Package push delivers review notifications to connected clients.
//
// Incoming payloads are normalized by ParsePayload: well-formed JSON is
// merged over the Thai-language defaults, anything else becomes the body
// of a default notification, so a malformed producer can never break
// delivery. Notifications fan out to WebSocket clients through Hub.
package push
