// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package summary counts inventory records by type, account, region and
// status class, with extra health figures for EC2 instances.
package summary

import (
	"math"
	"sort"
	"strings"

	"github.com/staranto/invctl/internal/format"
	"github.com/staranto/invctl/internal/record"
)

// DefaultTop limits the account and region distributions.
const DefaultTop = 10

// Count is one bucket of a distribution.
type Count struct {
	Key   string `json:"key" yaml:"key"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Count int    `json:"count" yaml:"count"`
}

// EC2 holds the instance health figures.
type EC2 struct {
	Total               int            `json:"total" yaml:"total"`
	Running             int            `json:"running" yaml:"running"`
	ByState             map[string]int `json:"byState" yaml:"byState"`
	HealthStatus        map[string]int `json:"healthStatus" yaml:"healthStatus"`
	MemoryMonitoring    int            `json:"memoryMonitoring" yaml:"memoryMonitoring"`
	DiskMonitoring      int            `json:"diskMonitoring" yaml:"diskMonitoring"`
	PercentWithMemory   float64        `json:"percentageWithMemory" yaml:"percentageWithMemory"`
	PercentWithDisk     float64        `json:"percentageWithDisk" yaml:"percentageWithDisk"`
	SSMConnected        int            `json:"ssmConnected" yaml:"ssmConnected"`
	PercentSSMConnected float64        `json:"percentageConnected" yaml:"percentageConnected"`
}

// Summary is the result of Accumulator.Summary.
type Summary struct {
	TotalResources int     `json:"totalResources" yaml:"totalResources"`
	ResourceCounts []Count `json:"resourceCounts" yaml:"resourceCounts"`
	Accounts       []Count `json:"accountDistribution" yaml:"accountDistribution"`
	Regions        []Count `json:"regionDistribution" yaml:"regionDistribution"`
	StatusClasses  []Count `json:"statusClasses" yaml:"statusClasses"`
	EC2            *EC2    `json:"ec2,omitempty" yaml:"ec2,omitempty"`
}

// Accumulator collects counts one record at a time.
type Accumulator struct {
	top          int
	types        map[string]int
	accounts     map[string]int
	accountNames map[string]string
	regions      map[string]int
	classes      map[string]int

	ec2States    map[string]int
	ec2Health    map[string]int
	ec2Total     int
	ec2Running   int
	ec2CWMemory  int
	ec2CWDisk    int
	ec2SSMOnline int
}

// NewAccumulator returns an empty accumulator. top <= 0 means DefaultTop.
func NewAccumulator(top int) *Accumulator {
	if top <= 0 {
		top = DefaultTop
	}
	return &Accumulator{
		top:          top,
		types:        map[string]int{},
		accounts:     map[string]int{},
		accountNames: map[string]string{},
		regions:      map[string]int{},
		classes:      map[string]int{},
		ec2States:    map[string]int{},
		ec2Health:    map[string]int{},
	}
}

// Add counts r. Records without a resourceType and metric records are
// ignored.
func (a *Accumulator) Add(r *record.Record) {
	resourceType := record.GetCell(r, "resourceType").String()
	if resourceType == "" {
		return
	}
	if isMetric, _ := record.GetCell(r, "isMetric").Bool(); isMetric {
		return
	}

	a.types[resourceType]++

	if account := record.GetCell(r, "accountId").String(); account != "" {
		a.accounts[account]++
		if name := record.GetCell(r, "accountName").String(); name != "" {
			a.accountNames[account] = name
		}
	}

	if region := record.GetCell(r, "region").String(); region != "" && region != "global" {
		a.regions[region]++
	}

	if class := format.StatusClass(record.GetCell(r, "status").String()); class != "" {
		a.classes[class]++
	}

	if resourceType == "EC2Instance" {
		a.addEC2(r)
	}
}

func (a *Accumulator) addEC2(r *record.Record) {
	a.ec2Total++

	state := strings.ToLower(record.GetCell(r, "instanceState").String())
	if state == "" {
		state = "unknown"
	}
	a.ec2States[state]++

	health := record.GetCell(r, "healthStatus").String()
	if health == "" {
		health = "Unknown"
	}
	a.ec2Health[health]++

	if state != "running" {
		return
	}
	a.ec2Running++
	if b, _ := record.GetCell(r, "cwAgentMemoryDetected").Bool(); b {
		a.ec2CWMemory++
	}
	if b, _ := record.GetCell(r, "cwAgentDiskDetected").Bool(); b {
		a.ec2CWDisk++
	}
	switch strings.ToLower(record.GetCell(r, "ssmStatus").String()) {
	case "connected", "online":
		a.ec2SSMOnline++
	}
}

// Summary returns the counts gathered so far.
func (a *Accumulator) Summary() Summary {
	s := Summary{
		ResourceCounts: sorted(a.types, 0, nil),
		Accounts:       sorted(a.accounts, a.top, a.accountNames),
		Regions:        sorted(a.regions, a.top, nil),
		StatusClasses:  sorted(a.classes, 0, nil),
	}
	for _, n := range a.types {
		s.TotalResources += n
	}

	if a.ec2Total > 0 {
		s.EC2 = &EC2{
			Total:               a.ec2Total,
			Running:             a.ec2Running,
			ByState:             a.ec2States,
			HealthStatus:        a.ec2Health,
			MemoryMonitoring:    a.ec2CWMemory,
			DiskMonitoring:      a.ec2CWDisk,
			PercentWithMemory:   percent(a.ec2CWMemory, a.ec2Running),
			PercentWithDisk:     percent(a.ec2CWDisk, a.ec2Running),
			SSMConnected:        a.ec2SSMOnline,
			PercentSSMConnected: percent(a.ec2SSMOnline, a.ec2Running),
		}
	}
	return s
}

// Calculate summarises records in one go.
func Calculate(records []*record.Record, top int) Summary {
	a := NewAccumulator(top)
	for _, r := range records {
		a.Add(r)
	}
	return a.Summary()
}

// sorted orders buckets by count, largest first, then by key. A top of 0
// keeps every bucket.
func sorted(m map[string]int, top int, names map[string]string) []Count {
	out := make([]Count, 0, len(m))
	for k, n := range m {
		c := Count{Key: k, Count: n}
		if names != nil {
			c.Name = names[k]
			if c.Name == "" {
				c.Name = k
			}
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if top > 0 && len(out) > top {
		out = out[:top]
	}
	return out
}

// percent rounds to one decimal place.
func percent(n, of int) float64 {
	if of == 0 {
		return 0
	}
	return math.Round(float64(n)/float64(of)*1000) / 10
}
