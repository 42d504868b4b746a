package bridge

import (
	"context"
	"fmt"
	"strconv"

	"github.com/vantagebridge/controller/vantage"
)

type TaskError string

func (e TaskError) Error() string {
	return string(e)
}

const TaskNotFound = TaskError("no task with that id or name")

// findTask resolves a task by numeric id or, failing that, by name.
func (b *Bridge) findTask(ref string) (*vantage.Task, error) {
	if vid, err := strconv.Atoi(ref); err == nil {
		if task, found := b.Client.Tasks.Get(vid); found {
			return task, nil
		}
	}

	if task, found := b.Client.Tasks.First(func(t *vantage.Task) bool {
		return t.ObjectName() == ref || t.ObjectDisplayName() == ref
	}); found {
		return task, nil
	}

	return nil, fmt.Errorf("%w: %s", TaskNotFound, ref)
}

// StartTask runs the task with the given id or name.
func (b *Bridge) StartTask(ctx context.Context, ref string) error {
	task, err := b.findTask(ref)
	if err != nil {
		return err
	}

	if err := b.Client.StartTask(ctx, task.ObjectID()); err != nil {
		if vantage.IsAuthError(err) {
			b.Reauth.StartReauth()
		}

		return fmt.Errorf("failed to start task %d: %w", task.ObjectID(), err)
	}

	return nil
}

// StopTask stops the task with the given id or name.
func (b *Bridge) StopTask(ctx context.Context, ref string) error {
	task, err := b.findTask(ref)
	if err != nil {
		return err
	}

	if err := b.Client.StopTask(ctx, task.ObjectID()); err != nil {
		if vantage.IsAuthError(err) {
			b.Reauth.StartReauth()
		}

		return fmt.Errorf("failed to stop task %d: %w", task.ObjectID(), err)
	}

	return nil
}
