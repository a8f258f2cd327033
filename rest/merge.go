// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

// SessionSchemeName is the security scheme appended automatically to
// guarded routes which do not already list it.
const SessionSchemeName = "sessionCookie"

// mergeTags concatenates controller tags and route tags, order
// preserved. Duplicates are retained: callers control ordering and
// repetition intentionally.
func mergeTags(controller, route []string) []string {
	merged := make([]string, 0, len(controller)+len(route))
	merged = append(merged, controller...)
	return append(merged, route...)
}

// mergeSecurity computes a route's effective security scheme list:
// controller schemes first, route schemes appended, duplicates removed
// keeping the first occurrence. A nil route list means "unset" and
// inherits the controller list; an explicitly empty route list adds
// nothing but does NOT clear inherited controller schemes. When guards
// are present and [SessionSchemeName] is absent, it is appended last.
func mergeSecurity(controller, route []string, hasGuards bool) []string {
	merged := make([]string, 0, len(controller)+len(route)+1)
	seen := make(map[string]struct{}, len(controller)+len(route)+1)

	appendUnique := func(names []string) {
		for _, name := range names {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			merged = append(merged, name)
		}
	}

	appendUnique(controller)
	appendUnique(route)

	if hasGuards {
		appendUnique([]string{SessionSchemeName})
	}
	return merged
}
