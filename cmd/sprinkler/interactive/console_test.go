package interactive

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprinkler-ctl/sprinkler-go/internal/controller"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/actuator"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/log"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/sprinkler"
	"github.com/sprinkler-ctl/sprinkler-go/pkg/tick"
)

type consoleRig struct {
	c     *Console
	ctrl  *controller.Controller
	bank  *actuator.PinBank
	clock *tick.ManualClock
	out   *bytes.Buffer
}

func newConsoleRig(t *testing.T) *consoleRig {
	t.Helper()

	bank, err := actuator.NewSequentialPinBank(5, 4, actuator.ActiveLow)
	require.NoError(t, err)
	clock := tick.NewManualClock(0)
	events := log.NewMemoryLogger(50)
	s, err := sprinkler.New(sprinkler.Config{ZoneCount: 4}, bank, clock, sprinkler.WithLogger(events))
	require.NoError(t, err)
	ctrl, err := controller.New(s, time.Second)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	return &consoleRig{
		c:     newConsole(ctrl, bank, events, out),
		ctrl:  ctrl,
		bank:  bank,
		clock: clock,
		out:   out,
	}
}

func (r *consoleRig) run(line string) string {
	r.out.Reset()
	r.c.Execute(line)
	return r.out.String()
}

func TestParseRunLength(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"10", 10 * time.Minute},
		{"1.5", 90 * time.Second},
		{"0", 0},
		{"90s", 90 * time.Second},
		{"1h", time.Hour},
	}
	for _, tt := range tests {
		got, err := ParseRunLength(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"-3", "ten", "-1m", "NaN", "Inf", "-Inf", "+Inf", "1e30", "1e400"} {
		_, err := ParseRunLength(bad)
		assert.Error(t, err, bad)
	}
}

func TestConsoleRejectsUnrepresentableRunLength(t *testing.T) {
	r := newConsoleRig(t)

	for _, bad := range []string{"NaN", "Inf", "1e30"} {
		out := r.run("on 2 " + bad)
		assert.Contains(t, out, "invalid run length", bad)
		assert.NotContains(t, out, "queued", bad)
	}
	assert.Empty(t, r.ctrl.Queue())
}

func TestConsoleOnAndStatus(t *testing.T) {
	r := newConsoleRig(t)

	assert.Contains(t, r.run("on 2 10"), "Zone 2 queued for 10m0s")
	assert.Contains(t, r.run("on 1 90s"), "Zone 1 queued for 1m30s")
	assert.Equal(t, "2 -> 1\n", r.run("queue"))

	require.NoError(t, r.ctrl.Poll())
	assert.Contains(t, r.run("queue"), "(zone 2 flowing)")

	out := r.run("status")
	assert.Contains(t, out, "ZONE")
	assert.Regexp(t, `2\s+7\s+flowing\s+0\s+10m0s\s+10m0s`, out)
	assert.Regexp(t, `1\s+6\s+queued\s+1\s+1m30s`, out)

	assert.Contains(t, r.run("pins"), "zone 2   pin 7   LOW")
}

func TestConsoleClampNote(t *testing.T) {
	r := newConsoleRig(t)
	out := r.run("on 0 3h")
	assert.Contains(t, out, "clamped to 1h0m0s")
	assert.Contains(t, out, "Zone 0 queued for 1h0m0s")
}

func TestConsoleRejectsBadInput(t *testing.T) {
	r := newConsoleRig(t)

	assert.Contains(t, r.run("on 9 10"), "Invalid zone: 9 (0-3)")
	assert.Contains(t, r.run("on 1"), "Usage: on")
	assert.Contains(t, r.run("on 1 soon"), "Invalid run length")
	assert.Contains(t, r.run("on 1 0"), "invalid duration")
	assert.Contains(t, r.run("off 3"), "not queued")
	assert.Contains(t, r.run("allon 1 1 1 1 1"), "invalid zone")
	assert.Contains(t, r.run("frobnicate"), "Unknown command: frobnicate")
	assert.Empty(t, r.ctrl.Queue())
}

func TestConsoleAllOnAdvanceAllOff(t *testing.T) {
	r := newConsoleRig(t)

	assert.Contains(t, r.run("allon 1 0 2"), "Queued 2 zone(s)")
	require.NoError(t, r.ctrl.Poll())
	assert.True(t, r.bank.IsOn(0))

	assert.Contains(t, r.run("advance"), "Advanced")
	assert.Empty(t, r.bank.OnZones())
	assert.Equal(t, []uint8{2}, r.ctrl.Queue())

	assert.Contains(t, r.run("alloff"), "All zones off")
	assert.Equal(t, "Queue empty\n", r.run("queue"))
}

func TestConsoleDumpAndEvents(t *testing.T) {
	r := newConsoleRig(t)
	r.run("on 3 1")
	require.NoError(t, r.ctrl.Poll())

	assert.Contains(t, r.run("dump"), "  zone:    0    1    2    3")

	out := r.run("events 2")
	assert.Contains(t, out, "ON 1m0s")
	assert.Contains(t, out, "STARTED queued->flowing")
	assert.Contains(t, out, "(2 shown, 3 total")

	assert.Contains(t, r.run("events x"), "Invalid count")
}

func TestConsoleQuit(t *testing.T) {
	r := newConsoleRig(t)
	assert.False(t, r.c.Execute(""))
	assert.False(t, r.c.Execute("help"))
	assert.Contains(t, r.out.String(), "4 zones")
	assert.True(t, r.c.Execute("quit"))
	assert.True(t, r.c.Execute("EXIT"))
}

func TestFormatEvent(t *testing.T) {
	ev := log.Event{
		Timestamp: time.Date(2024, 5, 1, 6, 30, 0, 0, time.UTC),
		Tick:      1234,
		Category:  log.CategoryError,
		Zone:      log.NoZone,
		Error:     &log.ErrorEventData{Message: "boom", Context: "update", Fatal: true},
	}
	line := FormatEvent(ev)
	assert.Contains(t, line, "06:30:00.000")
	assert.Contains(t, line, "tick=1234")
	assert.NotContains(t, line, "zone=")
	assert.Contains(t, line, "update: boom (fatal)")
}
