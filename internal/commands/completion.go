// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"
	"strings"
	"unicode"
)

// =============================================================================
// COMMAND COMPLETION
// =============================================================================

// Complete returns command names and aliases starting with the partial
// command in line, best match first. It has the signature liner expects
// from SetCompleter. Lines that are not a bare partial command get nothing.
func (r *Registry) Complete(line string) []string {
	partial := strings.ToLower(line)
	if !strings.HasPrefix(partial, "/") || strings.IndexFunc(partial, unicode.IsSpace) >= 0 {
		return nil
	}

	type candidate struct {
		value string
		score int
	}
	var found []candidate

	for _, cmd := range r.All() {
		if cmd.Hidden {
			continue
		}
		if strings.HasPrefix(strings.ToLower(cmd.Name), partial) {
			found = append(found, candidate{cmd.Name, calculateScore(cmd.Name, partial)})
		}
		for _, alias := range cmd.Aliases {
			if strings.HasPrefix(strings.ToLower(alias), partial) {
				// Slightly lower score for aliases
				found = append(found, candidate{alias, calculateScore(alias, partial) - 10})
			}
		}
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].score != found[j].score {
			return found[i].score > found[j].score
		}
		return found[i].value < found[j].value
	})

	out := make([]string, len(found))
	for i, c := range found {
		out[i] = c.value
	}
	return out
}

// calculateScore calculates a match score for completion ranking.
// Higher score = better match.
func calculateScore(value, partial string) int {
	value = strings.ToLower(value)
	partial = strings.ToLower(partial)

	score := 100
	if value == partial {
		return score + 100
	}
	if strings.HasPrefix(value, partial) {
		score += 50
		// Bonus for shorter completions
		score += 20 - len(value)
	}
	return score - len(value)/2
}
