// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package tableview is the tabular view widget. It renders records against a
// column list, shows the caller's sort state as a glyph, classes status cells
// and reports sort, detail and export requests to a Listener. It never sorts
// and never mutates its inputs.
package tableview
