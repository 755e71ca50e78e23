// Package pool implements bounded-parallelism batch execution for
// embarrassingly parallel workloads.
//
// A Pool runs submitted tasks on a fixed number of worker goroutines;
// a Dispatcher submits a whole batch and joins on every result,
// returning them in submission order regardless of completion order.
//
//   - one Result per accepted task, success or failure, never zero or two
//   - a failing or panicking task never aborts its siblings
//   - no timeouts and no retries: a hung task occupies its slot, and
//     retrying is the caller's business
package pool
