// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package summary

import (
	"sort"

	"github.com/staranto/invctl/internal/columns"
	"github.com/staranto/invctl/internal/record"
)

// Columns describe the rows produced by Records.
func Columns() columns.List {
	return columns.List{
		{Key: "group", Label: "GROUP", Include: true},
		{Key: "key", Label: "KEY", Include: true},
		{Key: "name", Label: "NAME", Include: true},
		{Key: "count", Label: "COUNT", Type: columns.TypeNumber, Include: true},
	}
}

// Records flattens s into rows so it can be filtered, sorted and rendered
// like any other record set.
func (s Summary) Records() []*record.Record {
	var out []*record.Record
	add := func(group, key, name string, n float64) {
		r := record.New()
		r.Set("group", record.String(group))
		r.Set("key", record.String(key))
		r.Set("name", record.String(name))
		r.Set("count", record.Number(n))
		out = append(out, r)
	}

	add("total", "resources", "", float64(s.TotalResources))
	for _, c := range s.ResourceCounts {
		add("type", c.Key, c.Name, float64(c.Count))
	}
	for _, c := range s.Accounts {
		add("account", c.Key, c.Name, float64(c.Count))
	}
	for _, c := range s.Regions {
		add("region", c.Key, c.Name, float64(c.Count))
	}
	for _, c := range s.StatusClasses {
		add("status", c.Key, c.Name, float64(c.Count))
	}

	if e := s.EC2; e != nil {
		add("ec2", "total", "", float64(e.Total))
		add("ec2", "running", "", float64(e.Running))
		for _, k := range sortedKeys(e.ByState) {
			add("ec2.state", k, "", float64(e.ByState[k]))
		}
		for _, k := range sortedKeys(e.HealthStatus) {
			add("ec2.health", k, "", float64(e.HealthStatus[k]))
		}
		add("ec2.agent", "memoryMonitoring", "", float64(e.MemoryMonitoring))
		add("ec2.agent", "diskMonitoring", "", float64(e.DiskMonitoring))
		add("ec2.agent", "percentageWithMemory", "", e.PercentWithMemory)
		add("ec2.agent", "percentageWithDisk", "", e.PercentWithDisk)
		add("ec2.ssm", "connected", "", float64(e.SSMConnected))
		add("ec2.ssm", "percentageConnected", "", e.PercentSSMConnected)
	}
	return out
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
