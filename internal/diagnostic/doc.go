// Package diagnostic collects structured errors, warnings and infos produced
// while checking property paths against Go types.
//
// Key capabilities:
//   - Unknown member errors with "did you mean" suggestions
//   - Per-path codes so callers can filter or count problems
//   - A combined error value for callers that only need pass/fail
package diagnostic
