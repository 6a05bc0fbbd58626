package metrics

import "time"

// RecordAPIRequest records one completed data source request.
// Outcome should be "success", "transient" or "fatal".
func RecordAPIRequest(path, outcome string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(path, outcome).Inc()
	APIRequestDuration.WithLabelValues(path).Observe(duration.Seconds())
}

// RecordRecordsFetched records the number of raw records returned by the
// data source for one entity level.
func RecordRecordsFetched(level string, count int) {
	RecordsFetchedTotal.WithLabelValues(level).Add(float64(count))
}

// RecordValidation records the outcome of validating a single raw record.
func RecordValidation(level string, valid bool) {
	if valid {
		RecordsValidTotal.WithLabelValues(level).Inc()
		return
	}
	RecordsInvalidTotal.WithLabelValues(level).Inc()
}

// RecordSelected records the size of a top-N selected set for one branch.
func RecordSelected(level string, count int) {
	RecordsSelectedTotal.WithLabelValues(level).Add(float64(count))
}

// RecordFetchFailure records a branch fetch that failed terminally.
func RecordFetchFailure(level string) {
	FetchFailuresTotal.WithLabelValues(level).Inc()
}

// RecordExportRun records the completion of a full export run.
// Status should be either "success" or "error".
func RecordExportRun(success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	ExportRunsTotal.WithLabelValues(status).Inc()
	ExportDuration.Observe(duration.Seconds())
}

// RecordRowsWritten records the number of output rows handed to the writer.
func RecordRowsWritten(count int) {
	RowsWrittenTotal.Add(float64(count))
}
