// Package poller schedules news ingestion.
//
// The news poller:
//   - Fires on a cron schedule (seconds field included, default every 15 minutes)
//   - Fetches the latest articles per configured ticker with bounded concurrency
//   - Merges the pages in ticker order, drops duplicates, and hands one batch to the writer
//   - Skips a cycle if the previous one is still running
package poller
