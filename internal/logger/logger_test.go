package logger

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	Init("error")
	assert.NotNil(t, InfoLogger)
	assert.NotNil(t, ErrorLogger)
	assert.NotNil(t, DebugLogger)
}

func TestInfof(t *testing.T) {
	var buf bytes.Buffer
	Init("error")
	InfoLogger = log.New(&buf, "INFO: ", 0)

	Infof("member %d frozen", 42)

	assert.Contains(t, buf.String(), "member 42 frozen")
}

func TestErrorf(t *testing.T) {
	var buf bytes.Buffer
	Init("error")
	ErrorLogger = log.New(&buf, "ERROR: ", 0)

	Errorf("charge failed: %s", "insufficient balance")

	assert.Contains(t, buf.String(), "charge failed: insufficient balance")
}

func TestComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	Init("error")
	InfoLogger = log.New(&buf, "INFO: ", 0)

	With("cancellation-sweep").Infof("completed %d requests", 3)

	out := buf.String()
	assert.Contains(t, out, "[cancellation-sweep]")
	assert.Contains(t, out, "completed 3 requests")
}
