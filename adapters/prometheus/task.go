package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/H1ghBre4k3r/message-passing/core/metrics"
	"github.com/H1ghBre4k3r/message-passing/core/task"
)

// taskMetrics implements task.Metrics using Prometheus.
type taskMetrics struct {
	tasksSpawned          *prometheus.CounterVec
	tasksCompleted        *prometheus.CounterVec
	taskDuration          *prometheus.HistogramVec
	messagesSent          *prometheus.CounterVec
	messagesReceived      *prometheus.CounterVec
	receiveTimeouts       *prometheus.CounterVec
	schedulerInflight     *prometheus.GaugeVec
	schedulerTaskDuration prometheus.Histogram
	schedulerTasksTotal   *prometheus.CounterVec
}

// NewTaskMetrics creates a new Prometheus implementation of task.Metrics and
// registers its collectors with reg.
func NewTaskMetrics(reg prometheus.Registerer) task.Metrics {
	m := &taskMetrics{
		tasksSpawned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mp_task_spawned_total",
			Help: "Total number of spawned tasks",
		}, []string{"kind"}),

		tasksCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mp_task_completed_total",
			Help: "Total number of finished tasks by outcome",
		}, []string{"kind", "outcome"}),

		taskDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mp_task_duration_seconds",
			Help:    "Task run time in seconds",
			Buckets: defaultBuckets,
		}, []string{"kind"}),

		messagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mp_task_messages_sent_total",
			Help: "Total number of send attempts",
		}, []string{"kind", "delivered"}),

		messagesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mp_task_messages_received_total",
			Help: "Total number of messages taken from mailboxes",
		}, []string{"kind"}),

		receiveTimeouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mp_task_receive_timeouts_total",
			Help: "Total number of timed out receives",
		}, []string{"kind"}),

		schedulerInflight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mp_scheduler_inflight",
			Help: "Number of concurrently running scheduled tasks",
		}, []string{"scheduler"}),

		schedulerTaskDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mp_scheduler_task_duration_seconds",
			Help:    "Scheduled function duration in seconds",
			Buckets: defaultBuckets,
		}),

		schedulerTasksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mp_scheduler_tasks_total",
			Help: "Total number of scheduled functions completed",
		}, []string{"success"}),
	}

	reg.MustRegister(
		m.tasksSpawned,
		m.tasksCompleted,
		m.taskDuration,
		m.messagesSent,
		m.messagesReceived,
		m.receiveTimeouts,
		m.schedulerInflight,
		m.schedulerTaskDuration,
		m.schedulerTasksTotal,
	)

	return m
}

func (m *taskMetrics) TaskSpawned(kind string) {
	m.tasksSpawned.WithLabelValues(kind).Inc()
}

func (m *taskMetrics) TaskCompleted(kind string, outcome task.Outcome) {
	m.tasksCompleted.WithLabelValues(kind, string(outcome)).Inc()
}

func (m *taskMetrics) TaskDuration(kind string) metrics.Timer {
	return newTimer(m.taskDuration.WithLabelValues(kind))
}

func (m *taskMetrics) MessageSent(kind string, delivered bool) {
	m.messagesSent.WithLabelValues(kind, boolToStr(delivered)).Inc()
}

func (m *taskMetrics) MessageReceived(kind string) {
	m.messagesReceived.WithLabelValues(kind).Inc()
}

func (m *taskMetrics) ReceiveTimeout(kind string) {
	m.receiveTimeouts.WithLabelValues(kind).Inc()
}

func (m *taskMetrics) SchedulerInflight(scheduler string, count int) {
	m.schedulerInflight.WithLabelValues(scheduler).Set(float64(count))
}

func (m *taskMetrics) SchedulerTaskDuration() metrics.Timer {
	return newTimer(m.schedulerTaskDuration)
}

func (m *taskMetrics) SchedulerTaskCompleted(success bool) {
	m.schedulerTasksTotal.WithLabelValues(boolToStr(success)).Inc()
}

var _ task.Metrics = (*taskMetrics)(nil)
