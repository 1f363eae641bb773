// Package robot polls a litter-appliance cloud account and keeps the units
// cycling: a scheduled clean every few hours and a reset whenever one wedges
// on its cat sensor. It is a control loop of its own and shares nothing with
// the recorder beyond logging and clock plumbing.
package robot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// Robot status values reported by the appliance API.
const (
	StatusReady                = "ready"
	StatusCleanCycle           = "clean_cycle"
	StatusPaused               = "paused"
	StatusCatSensorInterrupted = "cat_sensor_interrupted"
)

// Commands accepted by the appliance API.
const (
	CommandClean = "clean"
	CommandReset = "reset"
)

// Robot is one appliance on the account.
type Robot struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// NeedsReset reports whether the unit is wedged and should be reset.
func (r Robot) NeedsReset() bool {
	return r.Status == StatusPaused || r.Status == StatusCatSensorInterrupted
}

// Client is one authenticated conversation with the appliance API. Connect
// and Disconnect bracket every polling cycle so a stale session never spans
// the long sleep between cycles.
type Client interface {
	Connect(ctx context.Context) error
	Robots(ctx context.Context) ([]Robot, error)
	SendCommand(ctx context.Context, robotID, command string) error
	Disconnect(ctx context.Context) error
}

// APIError represents a non-2xx answer from the appliance API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("appliance API: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsRetryable returns true for server errors (5xx). Client errors (4xx) are
// considered permanent.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500
}

// Credentials is the account login pair, read from a JSON file so the
// password stays out of process listings and shell history.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parse credentials file: %w", err)
	}
	if creds.Email == "" || creds.Password == "" {
		return nil, fmt.Errorf("credentials file %s must contain email and password", path)
	}
	return &creds, nil
}

// StubClient logs every call instead of talking to the network. Used by the
// dry-run mode to rehearse the schedule against a fake fleet.
type StubClient struct {
	logger *slog.Logger
}

func NewStubClient(logger *slog.Logger) *StubClient {
	return &StubClient{logger: logger}
}

func (s *StubClient) Connect(ctx context.Context) error {
	s.logger.Info("appliance stub: connect requested")
	return nil
}

func (s *StubClient) Robots(ctx context.Context) ([]Robot, error) {
	s.logger.Info("appliance stub: robot listing requested")
	return []Robot{{ID: "stub-1", Name: "Litter Box", Status: StatusReady}}, nil
}

func (s *StubClient) SendCommand(ctx context.Context, robotID, command string) error {
	s.logger.Info("appliance stub: command requested", "robot_id", robotID, "command", command)
	return nil
}

func (s *StubClient) Disconnect(ctx context.Context) error {
	s.logger.Info("appliance stub: disconnect requested")
	return nil
}
