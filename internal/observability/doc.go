// Package observability provides logging and metrics support for the
// examiner recommendation service.
//
// # Logging
//
// Create a logger from configuration:
//
//	cfg := observability.LoggingConfig{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "stdout",
//	}
//
//	logger := observability.NewLogger(cfg)
//	logger.Info().Str("run_id", runID).Msg("query started")
//
// Add run context to a logger:
//
//	logger = observability.WithRunContext(logger, runID, queryWords)
//
// # Metrics
//
// Initialize and record metrics:
//
//	metrics := observability.NewMetrics("examiner_recommendation")
//	metrics.QueriesStarted.Inc()
//	metrics.RecordsScanned.Add(42)
//
// # Standard Fields
//
//   - request_id: HTTP correlation identifier
//   - run_id: recommendation query run identifier
//   - query_words: word count of the submitted abstract
//
// # Thread Safety
//
// All components are safe for concurrent use from multiple goroutines.
package observability
