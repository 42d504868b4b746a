package bridge

import (
	"github.com/vantagebridge/controller/state"
	"github.com/vantagebridge/controller/vantage"
)

// setupEvents forwards button presses and task activity onto the event bus.
// Buttons and tasks have no entity representation; they surface as events so
// automations can react to them.
func setupEvents(b *Bridge) {
	b.OnUnload(
		b.Client.Buttons.Subscribe(vantage.ObjectUpdated, func(event vantage.Event[*vantage.Button]) {
			if !changed(event.AttrsChanged, "down") {
				return
			}

			button := event.Obj

			var stationID int
			var stationName string
			var position int

			if ref, has := button.ParentRef(); has {
				position = ref.Position
				if station, found := b.Client.Stations.Get(ref.VID); found {
					stationID = station.ObjectID()
					stationName = station.ObjectDisplayName()
				}
			}

			if button.Down {
				b.Events.Publish(state.ButtonPressed{
					Gateway:        b.Gateway,
					ButtonID:       button.ObjectID(),
					ButtonName:     button.ObjectDisplayName(),
					ButtonPosition: position,
					Text1:          button.Text1,
					Text2:          button.Text2,
					StationID:      stationID,
					StationName:    stationName,
				})
			} else {
				b.Events.Publish(state.ButtonReleased{
					Gateway:        b.Gateway,
					ButtonID:       button.ObjectID(),
					ButtonName:     button.ObjectDisplayName(),
					ButtonPosition: position,
					Text1:          button.Text1,
					Text2:          button.Text2,
					StationID:      stationID,
					StationName:    stationName,
				})
			}
		}),
		b.Client.Tasks.Subscribe(vantage.ObjectUpdated, func(event vantage.Event[*vantage.Task]) {
			task := event.Obj

			switch {
			case changed(event.AttrsChanged, "running"):
				if task.Running {
					b.Events.Publish(state.TaskStarted{
						Gateway:  b.Gateway,
						TaskID:   task.ObjectID(),
						TaskName: task.ObjectDisplayName(),
					})
				} else {
					b.Events.Publish(state.TaskStopped{
						Gateway:  b.Gateway,
						TaskID:   task.ObjectID(),
						TaskName: task.ObjectDisplayName(),
					})
				}
			case changed(event.AttrsChanged, "state"):
				b.Events.Publish(state.TaskStateChanged{
					Gateway:   b.Gateway,
					TaskID:    task.ObjectID(),
					TaskName:  task.ObjectDisplayName(),
					TaskState: task.State,
				})
			}
		}),
	)
}

func changed(attrs []string, name string) bool {
	for _, a := range attrs {
		if a == name {
			return true
		}
	}

	return false
}
