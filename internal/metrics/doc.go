// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package metrics persists AI interaction telemetry to a local SQLite
// database.
//
// Every completed draft-pipeline run is recorded as an interaction:
// what was asked, what came back, how long it took, and whether the
// resulting draft was delivered. Feedback can be attached to an
// interaction later, keyed by its id; a second feedback record for the
// same interaction overwrites the first.
//
// Recording is best-effort. A failed write surfaces as a
// *PersistenceError for the status line, but never blocks the send
// path.
package metrics
