package bridge

import (
	"github.com/stretchr/testify/assert"
	"github.com/vantagebridge/controller/state"
	"github.com/vantagebridge/controller/vantage"
	"testing"
)

func TestButtonEvents(t *testing.T) {
	setup := func(h *testHarness) {
		h.client.Stations.Add(&vantage.Station{
			SystemObject: vantage.SystemObject{VID: 20, Name: "Keypad", Type: "Station", Master: 1},
		})
		h.client.Buttons.Add(&vantage.Button{
			SystemObject: vantage.SystemObject{VID: 30, Name: "Scene", Type: "Button", Master: 1},
			Child:        vantage.Child{Parent: vantage.ParentRef{VID: 20, Position: 3}},
			Text1:        "All",
			Text2:        "On",
		})

		setupEvents(h.bridge)
	}

	t.Run("press and release surface with station context", func(t *testing.T) {
		h := newTestHarness()
		setup(h)

		ch := make(chan any, 4)
		h.bus.Subscribe(ch)

		h.client.Buttons.Apply(30, func(b *vantage.Button) { b.Down = true }, "down")
		h.client.Buttons.Apply(30, func(b *vantage.Button) { b.Down = false }, "down")

		pressed := (<-ch).(state.ButtonPressed)
		assert.Equal(t, "house", pressed.Gateway)
		assert.Equal(t, 30, pressed.ButtonID)
		assert.Equal(t, 3, pressed.ButtonPosition)
		assert.Equal(t, "All", pressed.Text1)
		assert.Equal(t, 20, pressed.StationID)
		assert.Equal(t, "Keypad", pressed.StationName)

		released := (<-ch).(state.ButtonReleased)
		assert.Equal(t, 30, released.ButtonID)
	})

	t.Run("unrelated attribute changes emit nothing", func(t *testing.T) {
		h := newTestHarness()
		setup(h)

		ch := make(chan any, 4)
		h.bus.Subscribe(ch)

		h.client.Buttons.Apply(30, func(b *vantage.Button) { b.Text1 = "Other" }, "text1")

		assert.Len(t, ch, 0)
	})
}

func TestTaskEvents(t *testing.T) {
	setup := func(h *testHarness) {
		h.client.Tasks.Add(&vantage.Task{
			SystemObject: vantage.SystemObject{VID: 60, Name: "Goodnight", Type: "Task", Master: 1},
		})

		setupEvents(h.bridge)
	}

	t.Run("running transitions surface start and stop events", func(t *testing.T) {
		h := newTestHarness()
		setup(h)

		ch := make(chan any, 4)
		h.bus.Subscribe(ch)

		h.client.Tasks.Apply(60, func(task *vantage.Task) { task.Running = true }, "running")
		h.client.Tasks.Apply(60, func(task *vantage.Task) { task.Running = false }, "running")

		started := (<-ch).(state.TaskStarted)
		assert.Equal(t, 60, started.TaskID)
		assert.Equal(t, "Goodnight", started.TaskName)

		stopped := (<-ch).(state.TaskStopped)
		assert.Equal(t, 60, stopped.TaskID)
	})

	t.Run("state transitions surface the new state", func(t *testing.T) {
		h := newTestHarness()
		setup(h)

		ch := make(chan any, 4)
		h.bus.Subscribe(ch)

		h.client.Tasks.Apply(60, func(task *vantage.Task) { task.State = 2 }, "state")

		changed := (<-ch).(state.TaskStateChanged)
		assert.Equal(t, 60, changed.TaskID)
		assert.Equal(t, 2, changed.TaskState)
	})
}
