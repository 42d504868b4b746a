package bridge

import (
	"context"

	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/discard"
	"github.com/vantagebridge/controller/state"
	"github.com/vantagebridge/controller/vantage"
)

// testSession satisfies vantage.Session without a transport, recording the
// commands invoked and failing them all with err when set.
type testSession struct {
	commands []string
	err      error
}

func (s *testSession) Invoke(ctx context.Context, command string) (string, error) {
	s.commands = append(s.commands, command)
	return "", s.err
}

func (s *testSession) OnStatus(handler func(line string)) {}
func (s *testSession) Close() error                       { return nil }

type noObjects struct{}

func (noObjects) LoadObjects() ([]vantage.Object, error) { return nil, nil }

type countingReauth struct {
	count int
}

func (r *countingReauth) StartReauth() {
	r.count++
}

type testHarness struct {
	bridge  *Bridge
	client  *vantage.Client
	session *testSession
	reauth  *countingReauth
	bus     *state.EventBus
}

func newTestHarness() *testHarness {
	session := &testSession{}
	client := vantage.NewClient(session, noObjects{})
	bus := state.NewEventBus()
	reauth := &countingReauth{}

	b := New(
		"house",
		client,
		state.NewDeviceRegistry(bus),
		state.NewEntityRegistry(bus),
		bus,
		reauth,
		logwrap.New(discard.Discard()),
	)

	return &testHarness{
		bridge:  b,
		client:  client,
		session: session,
		reauth:  reauth,
		bus:     bus,
	}
}

// drainStateChanges empties a bus channel, keeping only the entity state
// change events.
func drainStateChanges(ch chan any) []state.EntityStateChanged {
	var result []state.EntityStateChanged

	for {
		select {
		case e := <-ch:
			if sc, ok := e.(state.EntityStateChanged); ok {
				result = append(result, sc)
			}
		default:
			return result
		}
	}
}

func newLoad(vid int, name string, area int) *vantage.Load {
	return &vantage.Load{
		SystemObject: vantage.SystemObject{VID: vid, Name: name, Type: "Load", Master: 1},
		Location:     vantage.Location{Area: area},
		LoadType:     "Incandescent",
	}
}
