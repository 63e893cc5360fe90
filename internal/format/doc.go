// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package format holds the cell formatting rules shared by the table widget
// and the static emitters: date rendering and status classification.
package format
