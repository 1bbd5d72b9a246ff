// Package jobs provides scheduled background tasks for the marketplace.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// DriverAssignmentRetryJob drains the driver assignment backlog. An order that reached
// READY_FOR_PICKUP while no driver was free is queued with a next attempt time; the job
// picks up due entries and runs the assignment again. A success removes the entry, another
// miss pushes its next attempt further out.
//
// # Usage
//
//	retry := jobs.NewDriverAssignmentRetryJob(backlogRepo, &assignHandler, "*/10 * * * * *", 50, logger)
//	jobManager := jobs.NewJobManager(retry)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules use the six-field cron format with seconds. Runs never overlap: a tick that
// fires while the previous batch is still working is skipped.
//
// # Error Handling
//
// Version conflicts are expected when a status update races the retry and are logged at
// info level. Everything else is logged as an error; the entry stays in the backlog.
package jobs
