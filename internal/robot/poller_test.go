package robot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

type command struct {
	robotID string
	name    string
}

type fakeClient struct {
	robots      []Robot
	connectErr  error
	robotsErr   error
	commandErr  error
	connects    int
	disconnects int
	commands    []command
}

func (f *fakeClient) Connect(ctx context.Context) error {
	f.connects++
	return f.connectErr
}

func (f *fakeClient) Robots(ctx context.Context) ([]Robot, error) {
	if f.robotsErr != nil {
		return nil, f.robotsErr
	}
	return f.robots, nil
}

func (f *fakeClient) SendCommand(ctx context.Context, robotID, cmd string) error {
	if f.commandErr != nil {
		return f.commandErr
	}
	f.commands = append(f.commands, command{robotID: robotID, name: cmd})
	return nil
}

func (f *fakeClient) Disconnect(ctx context.Context) error {
	f.disconnects++
	return nil
}

func testPoller(client Client) *Poller {
	return NewPoller(client, 10*time.Minute, 8*time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPoller_FirstCycleCleansImmediately(t *testing.T) {
	client := &fakeClient{robots: []Robot{{ID: "r1", Name: "Box", Status: StatusReady}}}
	p := testPoller(client)

	if err := p.cycleOnce(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(client.commands) != 1 {
		t.Fatalf("commands = %d, want 1", len(client.commands))
	}
	if client.commands[0].name != CommandClean {
		t.Errorf("command = %q, want clean", client.commands[0].name)
	}
	if client.connects != 1 || client.disconnects != 1 {
		t.Errorf("connects/disconnects = %d/%d, want 1/1", client.connects, client.disconnects)
	}
}

func TestPoller_SkipsCleanWhenAlreadyCycling(t *testing.T) {
	client := &fakeClient{robots: []Robot{{ID: "r1", Name: "Box", Status: StatusCleanCycle}}}
	p := testPoller(client)

	if err := p.cycleOnce(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.commands) != 0 {
		t.Errorf("commands = %v, want none", client.commands)
	}
}

func TestPoller_CleanCadence(t *testing.T) {
	client := &fakeClient{robots: []Robot{{ID: "r1", Name: "Box", Status: StatusReady}}}
	// clean every 3 cycles
	p := NewPoller(client, 10*time.Minute, 30*time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))

	cleansAt := []int{}
	for cycle := 1; cycle <= 9; cycle++ {
		before := len(client.commands)
		if err := p.cycleOnce(context.Background()); err != nil {
			t.Fatalf("cycle %d: %v", cycle, err)
		}
		if len(client.commands) > before {
			cleansAt = append(cleansAt, cycle)
		}
	}

	want := []int{1, 4, 7}
	if len(cleansAt) != len(want) {
		t.Fatalf("cleans at cycles %v, want %v", cleansAt, want)
	}
	for i := range want {
		if cleansAt[i] != want[i] {
			t.Errorf("cleans at cycles %v, want %v", cleansAt, want)
			break
		}
	}
}

func TestPoller_ResetsWedgedRobots(t *testing.T) {
	client := &fakeClient{robots: []Robot{
		{ID: "r1", Name: "Upstairs", Status: StatusPaused},
		{ID: "r2", Name: "Downstairs", Status: StatusCatSensorInterrupted},
		{ID: "r3", Name: "Garage", Status: StatusReady},
	}}
	p := testPoller(client)
	// consume the seeded immediate clean so only resets remain observable
	p.cycle = 0
	p.cyclesPerClean = 100

	if err := p.cycleOnce(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resets []string
	for _, c := range client.commands {
		if c.name == CommandReset {
			resets = append(resets, c.robotID)
		}
	}
	if len(resets) != 2 {
		t.Fatalf("resets = %v, want r1 and r2", resets)
	}
	if resets[0] != "r1" || resets[1] != "r2" {
		t.Errorf("resets = %v, want [r1 r2]", resets)
	}
}

func TestPoller_ConnectFailureIsReturned(t *testing.T) {
	boom := errors.New("dns failure")
	client := &fakeClient{connectErr: boom}
	p := testPoller(client)

	err := p.cycleOnce(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped connect failure", err)
	}
	if client.disconnects != 0 {
		t.Errorf("disconnects = %d, want 0 when connect failed", client.disconnects)
	}
}

func TestPoller_DisconnectsEvenWhenListingFails(t *testing.T) {
	client := &fakeClient{robotsErr: errors.New("gateway timeout")}
	p := testPoller(client)

	if err := p.cycleOnce(context.Background()); err == nil {
		t.Fatal("expected error, got none")
	}
	if client.disconnects != 1 {
		t.Errorf("disconnects = %d, want 1", client.disconnects)
	}
}

func TestAPIError_Retryable(t *testing.T) {
	if !(&APIError{StatusCode: 503}).IsRetryable() {
		t.Error("503 should be retryable")
	}
	if (&APIError{StatusCode: 401}).IsRetryable() {
		t.Error("401 should not be retryable")
	}
}
