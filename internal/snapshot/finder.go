// Copyright (c) 2025 Steve Taranto staranto@gmail.com.
// SPDX-License-Identifier: Apache-2.0

// Package snapshot picks inventory snapshots out of a directory the collector
// writes them to.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
)

var extensions = map[string]bool{
	".json":   true,
	".jsonl":  true,
	".ndjson": true,
	".yaml":   true,
	".yml":    true,
}

// Version is one snapshot file.
type Version struct {
	Path    string
	ModTime time.Time
}

// Versions lists the snapshot files in dir, newest first. Ties are broken by
// name, later names first.
func Versions(dir string) ([]Version, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	var versions []Version
	for _, e := range entries {
		if e.IsDir() || !extensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		versions = append(versions, Version{
			Path:    filepath.Join(dir, e.Name()),
			ModTime: info.ModTime(),
		})
	}

	sort.SliceStable(versions, func(i, j int) bool {
		if !versions[i].ModTime.Equal(versions[j].ModTime) {
			return versions[i].ModTime.After(versions[j].ModTime)
		}
		return versions[i].Path > versions[j].Path
	})
	return versions, nil
}

// Finder resolves specs against versions. A spec could be -
//
//	empty  - the newest snapshot.
//	~N     - the Nth snapshot before the newest.
//	-N     - same as ~N.
//	file   - an existing file, used as is.
//	name   - the newest snapshot whose file name starts with name.
func Finder(versions []Version, specs ...string) ([]Version, error) {
	var result = []Version{}

	if len(specs) == 0 {
		specs = []string{"~0"}
	}

	for _, s := range specs {
		index := -1

		switch {
		case s == "":
			index = 0
		case strings.HasPrefix(s, "~") || strings.HasPrefix(s, "-"):
			i, err := strconv.Atoi(s[1:])
			if err != nil || i < 0 {
				return nil, fmt.Errorf("invalid snapshot index %q", s)
			}
			index = i
		default:
			if info, err := os.Stat(s); err == nil && !info.IsDir() {
				result = append(result, Version{Path: s, ModTime: info.ModTime()})
				continue
			}
			// A starts with search on the file name. Versions are newest first so
			// a partial name finds the newest match.
			for j, v := range versions {
				if strings.HasPrefix(filepath.Base(v.Path), s) {
					index = j
					break
				}
			}
			if index < 0 {
				return nil, fmt.Errorf("no snapshot matches %q", s)
			}
		}

		if index > len(versions)-1 {
			return nil, fmt.Errorf("index %d out of range for %d snapshots", index, len(versions))
		}

		result = append(result, versions[index])
	}

	return result, nil
}

// Resolve turns a command line argument into a snapshot path. A directory is
// its newest snapshot and DIR~N an older one. Anything else, stdin included,
// is returned unchanged.
func Resolve(arg string) (string, error) {
	dir, spec, ok := split(arg)
	if !ok {
		return arg, nil
	}

	versions, err := Versions(dir)
	if err != nil {
		return "", err
	}
	found, err := Finder(versions, spec)
	if err != nil {
		return "", fmt.Errorf("%s: %w", dir, err)
	}
	log.Debugf("snapshot %s resolved to %s", arg, found[0].Path)
	return found[0].Path, nil
}

// Latest returns the two newest snapshots in dir, older first.
func Latest(dir string) (older, newer string, err error) {
	versions, err := Versions(dir)
	if err != nil {
		return "", "", err
	}
	found, err := Finder(versions, "~1", "~0")
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", dir, err)
	}
	return found[0].Path, found[1].Path, nil
}

// IsDir reports whether arg names a directory of snapshots.
func IsDir(arg string) bool {
	info, err := os.Stat(arg)
	return err == nil && info.IsDir()
}

// split breaks DIR or DIR~N into its parts. ok is false unless DIR exists.
func split(arg string) (dir, spec string, ok bool) {
	if arg == "" || arg == "-" {
		return "", "", false
	}
	if IsDir(arg) {
		return arg, "", true
	}
	if i := strings.LastIndex(arg, "~"); i > 0 && IsDir(arg[:i]) {
		return arg[:i], arg[i:], true
	}
	return "", "", false
}
