// Package tracker publishes live sweep status. Reporting is
// best-effort: a notifier failure is logged and never fails a run.
package tracker
