// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package output provides sorting, rendering, and export utilities used by
// commands to present record sets in various formats.
package output
