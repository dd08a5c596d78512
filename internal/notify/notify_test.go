package notify

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRecorderAndFanout(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	f := Fanout{a, b}

	f.Notify(Success, "Appointment booked")
	f.Notify(Warning, "Please login to continue")

	want := []Notification{{Success, "Appointment booked"}, {Warning, "Please login to continue"}}
	assert.Equal(t, want, a.All())
	assert.Equal(t, want, b.All())

	last, ok := a.Last()
	assert.True(t, ok)
	assert.Equal(t, Warning, last.Level)
}

func TestLogNotifierWritesLevel(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(zerolog.New(&buf))

	n.Notify(Error, "Failed to fetch cart")

	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "Failed to fetch cart")
}
