// Package jobs schedules the ERP sales reconciliation.
//
// Jobs are built on github.com/robfig/cron/v3 with a seconds field:
//
//  1. Today's sync runs every five minutes during business hours
//     (default "0 */5 6-23 * * *").
//  2. Yesterday's catch-up runs once a day (default "0 0 6 * * *").
//
// # Usage
//
//	jobManager := jobs.NewJobManager(syncHandler, alertSink, jobs.Settings{
//		TodaySchedule:     "0 */5 6-23 * * *",
//		YesterdaySchedule: "0 0 6 * * *",
//	}, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
//	// manual trigger, guarded like a scheduled tick
//	report, err := jobManager.RunNow(ctx, date)
//
// # Overlap
//
// Each job has its own single-flight guard. A tick that fires while the
// previous run of the same job is still paging through lots is skipped and
// logged, never queued. RunNow shares the guard of today's job.
//
// # Failures
//
// Every job owns a FailureTracker:
//   - transient ERP errors are logged and retried on the next tick
//   - storage errors are fatal and stop every job
//   - any other error increments the consecutive failure counter; from the
//     third failure on, each failure sends an alert
//   - a successful run resets the counter
package jobs
