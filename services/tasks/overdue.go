package tasks

import (
	"encoding/json"
	"time"

	"concierge/models"

	"github.com/hibiken/asynq"
)

const TypeOverdueSweep = "invoice:overdue-sweep"

// NewOverdueSweepTask builds a sweep task. The unique window stops the periodic enqueuer
// from stacking sweeps when the worker falls behind.
func NewOverdueSweepTask(payload models.OverdueSweepPayload, every time.Duration) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeOverdueSweep, b)
	opts := []asynq.Option{
		asynq.MaxRetry(3),
		asynq.Timeout(time.Minute),
		asynq.Unique(every),
	}
	return task, opts, nil
}

func ParseOverdueSweepPayload(task *asynq.Task) (models.OverdueSweepPayload, error) {
	var p models.OverdueSweepPayload
	err := json.Unmarshal(task.Payload(), &p)
	return p, err
}
