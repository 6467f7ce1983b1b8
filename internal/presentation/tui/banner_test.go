package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Equal(t, 8, strings.Count(buf.String(), "\n"))
}

func TestStyles_KeepText(t *testing.T) {
	for _, f := range []func(string) string{Success, Failure, Highlight, Faint} {
		assert.Contains(t, f("HOME -> WORLD"), "HOME -> WORLD")
	}
}
