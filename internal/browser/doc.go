// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package browser is the interactive parent of the table widget. It owns the
// sort state, reorders the rows when the widget asks, shows a detail pane for
// a requested record and writes exports.
package browser
