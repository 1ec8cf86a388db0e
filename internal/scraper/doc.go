// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

// Package scraper implements the concurrent polling-and-persistence pipeline.
//
// One cycle runs as: acquire single-instance lock -> open database (schema is
// created idempotently) -> load and bootstrap the server list -> probe all
// servers concurrently -> persist successful results in one transaction ->
// release lock. The lock is released on every exit path, including failures.
//
// Failure isolation is per target: a server that is down, slow or speaking
// garbage produces a failed ProbeResult and nothing else. Only persistence
// errors and configuration errors abort a cycle, and a cycle is never
// partially persisted: the batch commits exactly once or not at all.
package scraper
