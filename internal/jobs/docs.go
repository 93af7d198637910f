// Package jobs provides scheduled background tasks for orderhub.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// DispatchJob runs on a seconds-resolution cron schedule, lists READY orders oldest
// first and runs courier assignment for each of them.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	dispatch := jobs.NewDispatchJob(orderRepo, assignHandler, "*/10 * * * * *", 20, logger)
//	jobManager := jobs.NewJobManager(dispatch)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
//   - No available courier and concurrent state changes are expected and logged at debug level
//   - Every other failure is logged as an error and the pass moves on to the next order
//   - A failed job start stops the jobs already running
package jobs
