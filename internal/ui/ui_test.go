package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░  50%", ProgressBar(1, 2, 10))
	assert.Equal(t, "░░░░░   0%", ProgressBar(0, 0, 1))
	assert.True(t, strings.HasPrefix(ProgressBar(9, 3, 5), "█████ "), "overfull bar is capped")
}

func TestPanelPadsToWidestVisibleLine(t *testing.T) {
	require.NoError(t, SetTheme("mono"))
	t.Cleanup(func() { _ = SetTheme("classic") })

	var buf bytes.Buffer
	Panel(&buf, []string{"ab", "\033[32mabcd\033[0m"})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "+------+", lines[0])
	assert.Equal(t, "| ab   |", lines[1])
	assert.Equal(t, "+------+", lines[3])
}

func TestPainterPlainForBuffers(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, "x", For(&buf).C(fgRed, "x"))

	SetColorForcing(true, false)
	t.Cleanup(func() { SetColorForcing(false, false) })
	assert.Equal(t, fgRed+"x"+reset, For(&buf).C(fgRed, "x"))
}

func TestOKAndFail(t *testing.T) {
	var buf bytes.Buffer
	OK(&buf, "added")
	Fail(&buf, "nope")
	assert.Equal(t, "✔ added\n✖ nope\n", buf.String())
}

func TestSetThemeUnknown(t *testing.T) {
	err := SetTheme("solarized")
	require.Error(t, err)
	assert.Equal(t, "classic", Current().Name)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "short", Truncate("short", 10))
}
