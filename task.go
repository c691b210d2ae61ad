package dewey

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// TaskStatus is the lifecycle state of an asynchronous task.
type TaskStatus string

const (
	TaskStatusEnqueued   TaskStatus = "enqueued"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusSucceeded  TaskStatus = "succeeded"
	TaskStatusFailed     TaskStatus = "failed"
	TaskStatusCanceled   TaskStatus = "canceled"

	// TaskStatusUnexpected absorbs status strings this client does not
	// know, so new server-side statuses never fail a decode.
	TaskStatusUnexpected TaskStatus = "unexpected"
)

// ParseTaskStatus maps a wire status onto the known set. The mapping is
// total: unknown strings map to TaskStatusUnexpected.
func ParseTaskStatus(s string) TaskStatus {
	switch status := TaskStatus(s); status {
	case TaskStatusEnqueued, TaskStatusProcessing, TaskStatusSucceeded,
		TaskStatusFailed, TaskStatusCanceled:
		return status
	}
	return TaskStatusUnexpected
}

// Terminal reports whether the status will no longer change.
func (s TaskStatus) Terminal() bool {
	switch s {
	case TaskStatusSucceeded, TaskStatusFailed, TaskStatusCanceled:
		return true
	}
	return false
}

// TaskType names the operation a task performs.
type TaskType string

const (
	TaskTypeIndexCreation            TaskType = "indexCreation"
	TaskTypeIndexUpdate              TaskType = "indexUpdate"
	TaskTypeIndexDeletion            TaskType = "indexDeletion"
	TaskTypeIndexSwap                TaskType = "indexSwap"
	TaskTypeDocumentAdditionOrUpdate TaskType = "documentAdditionOrUpdate"
	TaskTypeDocumentEdition          TaskType = "documentEdition"
	TaskTypeDocumentDeletion         TaskType = "documentDeletion"
	TaskTypeSettingsUpdate           TaskType = "settingsUpdate"
	TaskTypeDumpCreation             TaskType = "dumpCreation"
	TaskTypeTaskCancelation          TaskType = "taskCancelation"
	TaskTypeTaskDeletion             TaskType = "taskDeletion"
	TaskTypeSnapshotCreation         TaskType = "snapshotCreation"
	TaskTypeUpgradeDatabase          TaskType = "upgradeDatabase"

	// TaskTypeUnexpected absorbs type strings this client does not know.
	TaskTypeUnexpected TaskType = "unexpected"
)

// ParseTaskType maps a wire task type onto the known set. The mapping is
// total: unknown strings map to TaskTypeUnexpected.
func ParseTaskType(s string) TaskType {
	switch typ := TaskType(s); typ {
	case TaskTypeIndexCreation, TaskTypeIndexUpdate, TaskTypeIndexDeletion,
		TaskTypeIndexSwap, TaskTypeDocumentAdditionOrUpdate,
		TaskTypeDocumentEdition, TaskTypeDocumentDeletion,
		TaskTypeSettingsUpdate, TaskTypeDumpCreation,
		TaskTypeTaskCancelation, TaskTypeTaskDeletion,
		TaskTypeSnapshotCreation, TaskTypeUpgradeDatabase:
		return typ
	}
	return TaskTypeUnexpected
}

// TaskError describes why a task failed.
type TaskError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Type    string `json:"type"`
	Link    string `json:"link"`
}

// SummarizedTask is the immediate acknowledgment returned by every mutating
// operation. The engine applies mutations asynchronously; fetch or wait on
// the task to learn the outcome. IndexUID is nil for tasks that are not
// bound to one index (index swaps, for example).
type SummarizedTask struct {
	TaskUID    int64
	IndexUID   *string
	Status     TaskStatus
	Type       TaskType
	EnqueuedAt time.Time
}

type summarizedTaskWire struct {
	TaskUID    int64   `json:"taskUid"`
	IndexUID   *string `json:"indexUid"`
	Status     string  `json:"status"`
	Type       string  `json:"type"`
	EnqueuedAt string  `json:"enqueuedAt"`
}

// UnmarshalJSON decodes a task acknowledgment. Unlike index timestamps,
// enqueuedAt is load-bearing: a malformed value fails the decode, which
// surfaces as a KindDecode error from the operation's parser.
func (t *SummarizedTask) UnmarshalJSON(data []byte) error {
	var w summarizedTaskWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	enqueued, err := time.Parse(time.RFC3339, w.EnqueuedAt)
	if err != nil {
		return fmt.Errorf("enqueuedAt: %w", err)
	}
	*t = SummarizedTask{
		TaskUID:    w.TaskUID,
		IndexUID:   w.IndexUID,
		Status:     ParseTaskStatus(w.Status),
		Type:       ParseTaskType(w.Type),
		EnqueuedAt: enqueued,
	}
	return nil
}

// Task is the full record of an asynchronous job as returned by the task
// endpoint. StartedAt and FinishedAt are nil while the task has not reached
// the corresponding state.
type Task struct {
	UID        int64
	IndexUID   *string
	Status     TaskStatus
	Type       TaskType
	CanceledBy *int64

	// Details varies by task type; callers decode the part they need.
	Details json.RawMessage

	Error      *TaskError
	Duration   *string
	EnqueuedAt time.Time
	StartedAt  *time.Time
	FinishedAt *time.Time
}

type taskWire struct {
	UID        int64           `json:"uid"`
	IndexUID   *string         `json:"indexUid"`
	Status     string          `json:"status"`
	Type       string          `json:"type"`
	CanceledBy *int64          `json:"canceledBy"`
	Details    json.RawMessage `json:"details"`
	Error      *TaskError      `json:"error"`
	Duration   *string         `json:"duration"`
	EnqueuedAt string          `json:"enqueuedAt"`
	StartedAt  *string         `json:"startedAt"`
	FinishedAt *string         `json:"finishedAt"`
}

// UnmarshalJSON decodes a full task record. All present timestamps must
// parse; like enqueuedAt on the summary form, they are load-bearing.
func (t *Task) UnmarshalJSON(data []byte) error {
	var w taskWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	enqueued, err := time.Parse(time.RFC3339, w.EnqueuedAt)
	if err != nil {
		return fmt.Errorf("enqueuedAt: %w", err)
	}
	started, err := parseOptionalTime(w.StartedAt)
	if err != nil {
		return fmt.Errorf("startedAt: %w", err)
	}
	finished, err := parseOptionalTime(w.FinishedAt)
	if err != nil {
		return fmt.Errorf("finishedAt: %w", err)
	}
	*t = Task{
		UID:        w.UID,
		IndexUID:   w.IndexUID,
		Status:     ParseTaskStatus(w.Status),
		Type:       ParseTaskType(w.Type),
		CanceledBy: w.CanceledBy,
		Details:    w.Details,
		Error:      w.Error,
		Duration:   w.Duration,
		EnqueuedAt: enqueued,
		StartedAt:  started,
		FinishedAt: finished,
	}
	return nil
}

func parseOptionalTime(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTask fetches the full record of one task.
func GetTask(c *Client, taskUID int64) Operation[Task] {
	return newOperation[Task](c, http.MethodGet, nil, nil,
		"tasks", strconv.FormatInt(taskUID, 10))
}

// WaitForTask polls GetTask through d every interval until the task reaches
// a terminal status or ctx is done. Intervals below 50ms are raised to 50ms
// to keep a zero value from busy-polling the engine.
//
// This is a convenience on top of Do; the operation layer itself stays free
// of I/O and polling policy.
func WaitForTask(ctx context.Context, d Doer, c *Client, taskUID int64, interval time.Duration) (Task, error) {
	const minInterval = 50 * time.Millisecond
	if interval < minInterval {
		interval = minInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		task, err := Do(ctx, d, GetTask(c, taskUID))
		if err != nil {
			return Task{}, err
		}
		if task.Status.Terminal() {
			return task, nil
		}

		select {
		case <-ctx.Done():
			return Task{}, ctx.Err()
		case <-ticker.C:
		}
	}
}
