// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package runid identifies one pipeline run. Every resource created by a run is
// tagged with its RunID so that orphans from a failed run can be traced back.
package runid

import (
	"maps"

	"github.com/segmentio/ksuid"
)

// TagKey is the Azure tag carrying the run identifier.
const TagKey = "azvm-run"

// RunID is a KSUID, so run identifiers sort by creation time.
type RunID string

// New returns a fresh RunID.
func New() RunID {
	return RunID(ksuid.New().String())
}

// Parse validates s as a RunID.
func Parse(s string) (RunID, error) {
	id, err := ksuid.Parse(s)
	if err != nil {
		return "", err
	}
	return RunID(id.String()), nil
}

func (r RunID) String() string {
	return string(r)
}

// Tags returns a copy of base with the run tag added. An empty RunID adds nothing.
func (r RunID) Tags(base map[string]string) map[string]string {
	tags := make(map[string]string, len(base)+1)
	maps.Copy(tags, base)
	if r != "" {
		tags[TagKey] = string(r)
	}
	return tags
}
