// Package metrics holds the backend-neutral instruments used by the task
// package, so that it does not depend on a concrete metrics library.
package metrics

// Timer measures one operation. Create it when the operation starts and call
// ObserveDuration when it ends:
//
//	defer m.TaskDuration("worker").ObserveDuration()
type Timer interface {
	ObserveDuration()
}
