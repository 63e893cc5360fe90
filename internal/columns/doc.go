// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package columns defines column descriptors and parses the --columns flag.
package columns
