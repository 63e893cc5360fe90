// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package format

import "strings"

// Status classes.
const (
	ClassActive     = "active"
	ClassInactive   = "inactive"
	ClassPending    = "pending"
	ClassTerminated = "terminated"
	ClassUnknown    = "unknown"
)

var statusClasses = map[string]string{
	"running":      ClassActive,
	"available":    ClassActive,
	"active":       ClassActive,
	"stopped":      ClassInactive,
	"stopping":     ClassInactive,
	"pending":      ClassPending,
	"provisioning": ClassPending,
	"terminated":   ClassTerminated,
	"deleted":      ClassTerminated,
}

// StatusClass classifies a status string. Matching is exact after lower
// casing. An empty status yields "" rather than ClassUnknown.
func StatusClass(status string) string {
	if status == "" {
		return ""
	}
	if class, ok := statusClasses[strings.ToLower(status)]; ok {
		return class
	}
	return ClassUnknown
}

// Classes lists every class StatusClass can return for non-empty input.
func Classes() []string {
	return []string{ClassActive, ClassInactive, ClassPending, ClassTerminated, ClassUnknown}
}
