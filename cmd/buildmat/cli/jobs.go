package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/hibiken/asynq"

	"github.com/buildmat/buildmat/jobs"
)

type taskEnqueuer interface {
	Enqueue(ctx context.Context, name string) (*asynq.TaskInfo, error)
	Close() error
}

type queueInspector interface {
	GetQueueInfo(queue string) (*asynq.QueueInfo, error)
	ListScheduledTasks(queue string, opts ...asynq.ListOption) ([]*asynq.TaskInfo, error)
	Close() error
}

// JobsCLI wraps manual management helpers for Asynq jobs.
type JobsCLI struct {
	client    taskEnqueuer
	inspector queueInspector
}

// NewJobsCLI initialises the CLI helpers using the provided Redis address.
func NewJobsCLI(redisAddr string) *JobsCLI {
	opts := asynq.RedisClientOpt{Addr: redisAddr}
	return &JobsCLI{client: jobs.NewClient(opts), inspector: asynq.NewInspector(opts)}
}

// Close releases underlying resources.
func (c *JobsCLI) Close() error {
	var err error
	if c.inspector != nil {
		if closeErr := c.inspector.Close(); closeErr != nil {
			err = closeErr
		}
	}
	if c.client != nil {
		if closeErr := c.client.Close(); closeErr != nil {
			err = closeErr
		}
	}
	return err
}

// Trigger enqueues a supported job by name with default payload.
func (c *JobsCLI) Trigger(ctx context.Context, name string) (*asynq.TaskInfo, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("jobs cli: client not configured")
	}
	return c.client.Enqueue(ctx, name)
}

// QueueStats summarises the current queue state.
type QueueStats struct {
	Queue     string `json:"queue"`
	Pending   int    `json:"pending"`
	Active    int    `json:"active"`
	Scheduled int    `json:"scheduled"`
	Retry     int    `json:"retry"`
}

// InspectQueue reports the queue metrics for the default queue.
func (c *JobsCLI) InspectQueue(ctx context.Context) (QueueStats, error) {
	if c == nil || c.inspector == nil {
		return QueueStats{}, errors.New("jobs cli: inspector not configured")
	}
	info, err := c.inspector.GetQueueInfo(jobs.QueueDefault)
	if err != nil {
		return QueueStats{}, err
	}
	stats := QueueStats{Queue: jobs.QueueDefault}
	if info != nil {
		stats.Pending = info.Pending
		stats.Active = info.Active
		stats.Scheduled = info.Scheduled
		stats.Retry = info.Retry
	}
	return stats, nil
}

// ListScheduled returns scheduled task infos for observability.
func (c *JobsCLI) ListScheduled(ctx context.Context, size int) ([]*asynq.TaskInfo, error) {
	if c == nil || c.inspector == nil {
		return nil, errors.New("jobs cli: inspector not configured")
	}
	if size <= 0 {
		size = 10
	}
	return c.inspector.ListScheduledTasks(jobs.QueueDefault, asynq.PageSize(size), asynq.Page(1))
}

// Options carries the output streams of a jobs command.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
}

const usage = "usage: buildmat jobs trigger <task> | inspect | scheduled [size]"

// Run executes "jobs <command> [args]" and returns the process exit code.
func (c *JobsCLI) Run(ctx context.Context, args []string, opts Options) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if len(args) == 0 {
		_, _ = fmt.Fprintln(opts.Stderr, usage)
		return 2
	}

	switch args[0] {
	case "trigger":
		if len(args) != 2 {
			_, _ = fmt.Fprintln(opts.Stderr, usage)
			return 2
		}
		info, err := c.Trigger(ctx, args[1])
		if err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "jobs trigger: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintf(opts.Stdout, "enqueued %s id=%s queue=%s\n", info.Type, info.ID, info.Queue)
		return 0
	case "inspect":
		stats, err := c.InspectQueue(ctx)
		if err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "jobs inspect: %v\n", err)
			return 1
		}
		if err := json.NewEncoder(opts.Stdout).Encode(stats); err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "jobs inspect: encode json: %v\n", err)
			return 1
		}
		return 0
	case "scheduled":
		size := 0
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				_, _ = fmt.Fprintf(opts.Stderr, "jobs scheduled: invalid size %q\n", args[1])
				return 2
			}
			size = n
		}
		tasks, err := c.ListScheduled(ctx, size)
		if err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "jobs scheduled: %v\n", err)
			return 1
		}
		if len(tasks) == 0 {
			_, _ = fmt.Fprintln(opts.Stdout, "no scheduled tasks")
			return 0
		}
		for _, task := range tasks {
			_, _ = fmt.Fprintf(opts.Stdout, "%s %s next=%s\n", task.ID, task.Type, task.NextProcessAt.UTC().Format("2006-01-02T15:04:05Z"))
		}
		return 0
	default:
		_, _ = fmt.Fprintf(opts.Stderr, "jobs: unknown command %q\n%s\n", args[0], usage)
		return 2
	}
}
