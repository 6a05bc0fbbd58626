// Package resilience provides reliability and fault tolerance patterns for the
// exporter. It includes implementations of circuit breakers and retry logic to
// keep data source fetches robust in the face of transient failures.
//
// The package supports:
//   - Circuit breakers for calls against the remote data source
//   - Retry logic with exponential backoff and jitter
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.APIFetchConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return fetchRecords()
//	})
//
//	retryConfig := retry.APIFetchConfig()
//	err := retry.WithBackoff(ctx, retryConfig, func() error {
//	    return performFetch()
//	})
package resilience
