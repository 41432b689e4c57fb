/*
 * Copyright (c) 2025 by the Resume Studio authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package subst resolves {{field}}, {{object.field}} and
// {{#each list}}...{{/each}} tokens against a flattened data context.
package subst

import (
	"log/slog"
	"strings"

	"resumestudio/internal/domain"
	applog "resumestudio/internal/log"
)

// identityDefaults are the fallbacks for well-known identity fields.
// Any other unresolved token stays literal so missing data is diagnosable.
var identityDefaults = map[string]string{
	"name":      "John Doe",
	"firstName": "John",
	"lastName":  "Doe",
	"email":     "john.doe@email.com",
	"phone":     "+1 (555) 123-4567",
	"summary":   "Experienced professional.",
}

const (
	openTok  = "{{"
	closeTok = "}}"
	eachTok  = "{{#each "
	endEach  = "{{/each}}"
)

// Substitute resolves all tokens in text against ctx in one scan.
// Resolution order within the scan: an {{#each}} block is expanded before
// its interior tokens are considered, then two-segment {{a.b}}, then
// single-segment {{a}}. Replaced values are appended verbatim and never
// rescanned, so the operation is idempotent even when a data value
// itself contains token-shaped text.
func Substitute(text string, ctx domain.VariableContext) string {
	if text == "" || !strings.Contains(text, openTok) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	substituteInto(&b, text, ctx)
	return b.String()
}

func substituteInto(b *strings.Builder, text string, ctx domain.VariableContext) {
	log := applog.WithComponent("subst")
	for {
		start := strings.Index(text, openTok)
		if start < 0 {
			b.WriteString(text)
			return
		}
		b.WriteString(text[:start])
		rest := text[start:]

		if strings.HasPrefix(rest, eachTok) {
			name, body, tail, ok := parseEach(rest)
			if !ok {
				// Unterminated block: emit the marker literally and move on.
				b.WriteString(openTok)
				text = rest[len(openTok):]
				continue
			}
			items := listItems(ctx, name)
			if items == nil {
				log.Debug("each list missing", slog.String("list", name))
			}
			for _, item := range items {
				substituteInto(b, body, overlay(ctx, item))
			}
			text = tail
			continue
		}

		end := strings.Index(rest, closeTok)
		if end < 0 {
			b.WriteString(text)
			return
		}
		token := rest[len(openTok):end]
		b.WriteString(resolve(token, ctx))
		text = rest[end+len(closeTok):]
	}
}

// EachBinding reports the list name and body of the first complete
// {{#each}} block in s, if any. The normalizer uses it to expand
// component nodes bound to list fields.
func EachBinding(s string) (name, body string, ok bool) {
	i := strings.Index(s, eachTok)
	if i < 0 {
		return "", "", false
	}
	name, body, _, ok = parseEach(s[i:])
	return name, body, ok
}

// WithItem returns ctx overlaid with one list item's fields.
func WithItem(ctx domain.VariableContext, item map[string]string) domain.VariableContext {
	return overlay(ctx, item)
}

// Items returns the list bound to name in ctx, or nil when absent.
func Items(ctx domain.VariableContext, name string) []map[string]string {
	return listItems(ctx, name)
}

// parseEach splits "{{#each name}}body{{/each}}tail". It returns ok=false
// when the block is not closed.
func parseEach(s string) (name, body, tail string, ok bool) {
	headEnd := strings.Index(s, closeTok)
	if headEnd < 0 {
		return "", "", "", false
	}
	name = strings.TrimSpace(s[len(eachTok):headEnd])
	after := s[headEnd+len(closeTok):]
	end := strings.Index(after, endEach)
	if end < 0 || name == "" {
		return "", "", "", false
	}
	return name, after[:end], after[end+len(endEach):], true
}

// resolve handles a single {{token}} occurrence. Two-segment tokens fall
// back to the literal text; single-segment tokens fall back to the
// identity defaults first, then to the literal text.
func resolve(token string, ctx domain.VariableContext) string {
	literal := openTok + token + closeTok
	key := strings.TrimSpace(token)
	if key == "" || strings.ContainsAny(key, "{}") {
		return literal
	}
	if obj, field, isDotted := strings.Cut(key, "."); isDotted {
		if v, ok := lookupNested(ctx, obj, field); ok {
			return v
		}
		return literal
	}
	if v, ok := lookupScalar(ctx, key); ok {
		return v
	}
	if v, ok := identityDefaults[key]; ok {
		return v
	}
	return literal
}

func lookupScalar(ctx domain.VariableContext, key string) (string, bool) {
	v, ok := ctx[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func lookupNested(ctx domain.VariableContext, obj, field string) (string, bool) {
	v, ok := ctx[obj]
	if !ok {
		return "", false
	}
	switch m := v.(type) {
	case map[string]string:
		s, ok := m[field]
		return s, ok && s != ""
	case map[string]any:
		if s, ok := m[field].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// listItems returns the list bound to name, or nil when absent. Empty
// and missing lists both expand to nothing.
func listItems(ctx domain.VariableContext, name string) []map[string]string {
	v, ok := ctx[name]
	if !ok {
		return nil
	}
	switch items := v.(type) {
	case []map[string]string:
		return items
	case []any:
		out := make([]map[string]string, 0, len(items))
		for _, it := range items {
			switch m := it.(type) {
			case map[string]string:
				out = append(out, m)
			case map[string]any:
				conv := make(map[string]string, len(m))
				for k, val := range m {
					if s, ok := val.(string); ok {
						conv[k] = s
					}
				}
				out = append(out, conv)
			}
		}
		return out
	}
	return nil
}

// overlay returns ctx with the item's own fields merged on top. The
// original context is not modified.
func overlay(ctx domain.VariableContext, item map[string]string) domain.VariableContext {
	out := make(domain.VariableContext, len(ctx)+len(item))
	for k, v := range ctx {
		out[k] = v
	}
	for k, v := range item {
		out[k] = v
	}
	return out
}
