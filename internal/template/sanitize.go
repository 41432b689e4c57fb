/*
 * Copyright (c) 2025 by the Resume Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package template

import (
	"encoding/json"

	"resumestudio/internal/domain"
)

// Legacy object kind aliases found in stored canvas payloads.
var kindAliases = map[domain.ObjectKind]domain.ObjectKind{
	"textbox": domain.KindText,
	"i-text":  domain.KindText,
}

// SanitizeSpec rewrites legacy values in place. Text objects always end
// up with the alphabetic baseline; the legacy "alphabetical" value is
// rejected by some renderers and silently misrendered by others, and it
// still occurs in stored templates and old snapshots.
func SanitizeSpec(spec *domain.SceneObjectSpec) {
	if alias, ok := kindAliases[spec.Kind]; ok {
		spec.Kind = alias
	}
	if spec.Kind == domain.KindText {
		if spec.TextBaseline == domain.BaselineLegacy || spec.TextBaseline == "" {
			spec.TextBaseline = domain.BaselineAlphabetic
		}
	}
}

// SanitizeSnapshot normalizes a whole snapshot before it is applied to a
// surface. Runs unconditionally on restore since a snapshot captured
// under an older rule set may carry the legacy baseline.
func SanitizeSnapshot(s *domain.Snapshot) {
	if s == nil {
		return
	}
	if s.Background == "" {
		s.Background = domain.DefaultBackground
	}
	if s.Objects == nil {
		s.Objects = []domain.SceneObjectSpec{}
	}
	for i := range s.Objects {
		SanitizeSpec(&s.Objects[i])
	}
}

// ParseSnapshot decodes and sanitizes snapshot JSON. Snapshots produced
// under a different version remain parseable; only the object list and
// background are interpreted.
func ParseSnapshot(raw []byte) (domain.Snapshot, error) {
	var s domain.Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return domain.Snapshot{}, err
	}
	SanitizeSnapshot(&s)
	return s, nil
}
