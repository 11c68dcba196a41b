package task

import "github.com/H1ghBre4k3r/message-passing/core/metrics"

// Outcome classifies how a task finished.
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeError        Outcome = "error"
	OutcomePanic        Outcome = "panic"
	OutcomeNotScheduled Outcome = "not_scheduled"
)

// Metrics defines the instrumentation points of tasks and schedulers.
// Labels are task kinds (see WithName) and scheduler names, never task IDs.
// All methods are thread-safe.
type Metrics interface {
	// Task lifecycle
	TaskSpawned(kind string)
	TaskCompleted(kind string, outcome Outcome)
	TaskDuration(kind string) metrics.Timer

	// Mailbox
	MessageSent(kind string, delivered bool)
	MessageReceived(kind string)
	ReceiveTimeout(kind string)

	// Scheduler
	SchedulerInflight(scheduler string, count int)
	SchedulerTaskDuration() metrics.Timer
	SchedulerTaskCompleted(success bool)
}

type nopMetrics struct{}

func (nopMetrics) TaskSpawned(string)                   {}
func (nopMetrics) TaskCompleted(string, Outcome)        {}
func (nopMetrics) TaskDuration(string) metrics.Timer    { return metrics.NopTimer() }
func (nopMetrics) MessageSent(string, bool)             {}
func (nopMetrics) MessageReceived(string)               {}
func (nopMetrics) ReceiveTimeout(string)                {}
func (nopMetrics) SchedulerInflight(string, int)        {}
func (nopMetrics) SchedulerTaskDuration() metrics.Timer { return metrics.NopTimer() }
func (nopMetrics) SchedulerTaskCompleted(bool)          {}

// NopMetrics returns a Metrics implementation that records nothing.
func NopMetrics() Metrics { return nopMetrics{} }
