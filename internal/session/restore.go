/*
 * Copyright (c) 2025 by the Resume Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package session

import (
	"time"

	"resumestudio/internal/domain"
)

// RestoreResult classifies the outcome of TryRestore.
type RestoreResult int

const (
	// RestoreSuccess means the snapshot was applied.
	RestoreSuccess RestoreResult = iota
	// RestoreSuppressed means the call fell inside the cooldown window
	// and was dropped as a benign no-op.
	RestoreSuppressed
	// RestoreFailure means the drawing surface is detached or its
	// context is lost; nothing was mutated.
	RestoreFailure
)

func (r RestoreResult) String() string {
	switch r {
	case RestoreSuccess:
		return "success"
	case RestoreSuppressed:
		return "suppressed"
	default:
		return "failure"
	}
}

// restoreGuard rate-limits snapshot reapplication. External events such
// as zoom changes can fire restores in rapid bursts; only the first of
// a burst is applied. The clock is injectable for tests.
type restoreGuard struct {
	cooldown time.Duration
	last     time.Time
	now      func() time.Time
}

func (g *restoreGuard) allow() bool {
	t := g.now()
	if !g.last.IsZero() && t.Sub(g.last) < g.cooldown {
		return false
	}
	g.last = t
	return true
}

// TrySave captures the current scene as a snapshot. It reports failure
// when the drawing surface has been lost, since a serialize against a
// dead surface cannot be trusted.
func (s *Session) TrySave() (domain.Snapshot, bool) {
	if surf := s.graph.Surface(); surf != nil && !surf.Alive() {
		s.log.Warn("save refused, surface lost")
		return domain.Snapshot{}, false
	}
	return s.graph.Serialize(), true
}

// TryRestore reapplies a snapshot through the guard. Calls inside the
// cooldown window are suppressed, not errors; a dead surface is a
// failure and performs no mutation. The snapshot is sanitized before
// application.
func (s *Session) TryRestore(snap domain.Snapshot) RestoreResult {
	if !s.guard.allow() {
		s.log.Debug("restore suppressed by cooldown")
		return RestoreSuppressed
	}
	if err := s.applySnapshot(snap); err != nil {
		return RestoreFailure
	}
	return RestoreSuccess
}
