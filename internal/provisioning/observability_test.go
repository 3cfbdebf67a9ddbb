package provisioning

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockObserver is a test implementation of Observer that records events.
type MockObserver struct {
	events   []Event
	messages []string
	fields   map[string]string
}

func NewMockObserver() *MockObserver {
	return &MockObserver{
		events:   make([]Event, 0),
		messages: make([]string, 0),
		fields:   make(map[string]string),
	}
}

func (m *MockObserver) Printf(format string, v ...any) {
	m.messages = append(m.messages, fmt.Sprintf(format, v...))
}

func (m *MockObserver) Event(event Event) {
	m.events = append(m.events, event)
}

func (m *MockObserver) Progress(phase string, current, total int) {
	m.Event(Event{
		Type:    EventProgress,
		Phase:   phase,
		Message: "progress",
		Fields: map[string]string{
			"current": fmt.Sprint(current),
			"total":   fmt.Sprint(total),
		},
	})
}

func (m *MockObserver) WithFields(fields map[string]string) Observer {
	newObserver := NewMockObserver()
	for k, v := range m.fields {
		newObserver.fields[k] = v
	}
	for k, v := range fields {
		newObserver.fields[k] = v
	}
	return newObserver
}

func (m *MockObserver) eventsOfType(t EventType) []Event {
	var out []Event
	for _, e := range m.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// captureLogger returns a logger that appends every formatted line to lines.
func captureLogger(lines *[]string) logr.Logger {
	return funcr.New(func(prefix, args string) {
		*lines = append(*lines, prefix+" "+args)
	}, funcr.Options{Verbosity: 1})
}

func TestLogrObserver_Printf(t *testing.T) {
	var lines []string
	observer := NewLogrObserver(captureLogger(&lines))

	observer.Printf("test message: %s", "value")

	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"msg"="test message: value"`)
}

func TestLogrObserver_Event(t *testing.T) {
	var lines []string
	observer := NewLogrObserver(captureLogger(&lines))

	observer.Event(Event{
		Type:     EventResourceEnsured,
		Phase:    "network",
		Resource: "home-vpc",
		Message:  "vpc ready",
		Fields:   map[string]string{"id": "vpc-123"},
	})

	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"event"="resource.ensured"`)
	assert.Contains(t, lines[0], `"phase"="network"`)
	assert.Contains(t, lines[0], `"resource"="home-vpc"`)
	assert.Contains(t, lines[0], `"id"="vpc-123"`)
}

func TestLogrObserver_FailureIsLoggedAsError(t *testing.T) {
	var lines []string
	observer := NewLogrObserver(captureLogger(&lines))

	LogPhaseFailed(observer, "certificate", assert.AnError)

	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"error"=null`)
	assert.Contains(t, lines[0], "failed: "+assert.AnError.Error())
}

func TestLogrObserver_Progress(t *testing.T) {
	var lines []string
	observer := NewLogrObserver(captureLogger(&lines))

	observer.Progress("pipeline", 3, 4)

	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"percent"="75"`)
}

func TestLogrObserver_WithFields(t *testing.T) {
	var lines []string
	observer := NewLogrObserver(captureLogger(&lines))

	scoped := observer.WithFields(map[string]string{"stack": "home"})
	scoped.Printf("hello")
	scoped.WithFields(map[string]string{"phase": "network"}).Event(Event{Type: EventPhaseStarted, Message: "starting"})
	observer.Printf("unscoped")

	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"stack"="home"`)
	assert.Contains(t, lines[1], `"stack"="home"`)
	assert.Contains(t, lines[1], `"phase"="network"`)
	assert.NotContains(t, lines[2], "stack")
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		level   string
		wantErr string
	}{
		{name: "defaults", format: "", level: ""},
		{name: "json debug", format: "json", level: "debug"},
		{name: "console info", format: "console", level: "info"},
		{name: "bad format", format: "xml", level: "info", wantErr: "invalid log format"},
		{name: "bad level", format: "json", level: "loud", wantErr: "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogger(tt.format, tt.level)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l.GetSink())
		})
	}
}

func TestNewLogger_DebugEnablesVerbosity(t *testing.T) {
	debug, err := NewLogger("json", "debug")
	require.NoError(t, err)
	assert.True(t, debug.V(1).Enabled())

	info, err := NewLogger("json", "info")
	require.NoError(t, err)
	assert.False(t, info.V(1).Enabled())
}

func TestLoggerFromEnv_InvalidFallsBack(t *testing.T) {
	t.Setenv(LogFormatEnv, "yaml")
	t.Setenv(LogLevelEnv, "")

	l := LoggerFromEnv()
	assert.NotNil(t, l.GetSink())
}

func TestMockObserver_Events(t *testing.T) {
	observer := NewMockObserver()

	LogPhaseStart(observer, "test-phase")
	LogResourceEnsured(observer, "network", "vpc", "home-vpc", "vpc-123")
	LogResourceDeleting(observer, "destroy", "vpc", "home-vpc")
	LogResourceDeleted(observer, "destroy", "vpc", "home-vpc")
	LogPhaseComplete(observer, "test-phase", 2*time.Second)

	require.Len(t, observer.events, 5)

	assert.Equal(t, EventPhaseStarted, observer.events[0].Type)
	assert.Equal(t, "test-phase", observer.events[0].Phase)

	assert.Equal(t, EventResourceEnsured, observer.events[1].Type)
	assert.Equal(t, "home-vpc", observer.events[1].Resource)
	assert.Equal(t, "vpc-123", observer.events[1].Fields["id"])

	assert.Equal(t, EventResourceDeleting, observer.events[2].Type)
	assert.Equal(t, EventResourceDeleted, observer.events[3].Type)
	assert.Equal(t, EventPhaseCompleted, observer.events[4].Type)
	assert.Equal(t, "completed in 2s", observer.events[4].Message)
}

func TestFormatEvent(t *testing.T) {
	line := FormatEvent(Event{
		Type:     EventResourceDeleted,
		Phase:    "destroy",
		Resource: "home-alb",
		Message:  "load balancer deleted",
		Fields:   map[string]string{"type": "load balancer", "b": "2"},
	})

	assert.Equal(t, "resource.deleted [destroy] resource=home-alb load balancer deleted (b=2, type=load balancer)", line)
	assert.True(t, strings.HasPrefix(FormatEvent(Event{Type: EventProgress, Message: "x"}), "progress x"))
}

func TestObserver_ImplementsLogger(t *testing.T) {
	var observer Observer = NewLogrObserver(logr.Discard())
	var logger Logger = observer
	assert.NotNil(t, logger)
}
