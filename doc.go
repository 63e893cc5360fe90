// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// invctl is the main package for the invctl command line tool. It wires the
// CLI, delegates to internal packages, and serves as the entry point.
package main
