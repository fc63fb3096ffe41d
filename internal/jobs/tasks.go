package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportWarmWeek pre-populates the current-week aggregate cache.
	TaskReportWarmWeek = "report:warm-week"
)

// WarmWeekPayload optionally pins the warmed range; empty fields mean the
// current week at execution time.
type WarmWeekPayload struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// NewWarmWeekTask constructs an Asynq task.
func NewWarmWeekTask(payload WarmWeekPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportWarmWeek, data), nil
}
