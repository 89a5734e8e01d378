package ports

// Executor runs units of work on behalf of the asynchronous batch resolver.
//
// Implementations may run the task on the calling goroutine or on a pool.
// Tasks must never be dropped: every submitted task runs exactly once.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute schedules task for execution.
	Execute(task func())
}
