// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package driller extracts values from raw inventory JSON documents using
// dotted paths with optional [n] indexes, e.g. "tags.Name" or
// "attachments[0].instanceId".
package driller
