// Package jobs provides scheduled background tasks for the dispatch system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the dispatch service.
//
// # Available Jobs
//
// 1. OfferExpiryJob - Runs every 30 seconds to close offers whose response window has passed
// 2. DispatchRetryJob - Runs every 30 seconds to start the next assignment round for expired orders
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(expireOffersHandler, orderUoWFactory, processOrderHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Both jobs use the cron expression "*/30 * * * * *", running every 30
// seconds. Offer windows are minutes long, so a half-minute sweep granularity
// is well inside the tolerance of the response deadline.
//
// # Error Handling
//
// - The expiry job logs sweep failures; the next sweep picks up where it left off
// - The retry job isolates per-order failures so one bad order cannot block the batch
// - Failed job starts will stop any already running jobs
package jobs
