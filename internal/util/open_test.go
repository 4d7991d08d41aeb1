package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenCommand(t *testing.T) {
	t.Parallel()

	name, args := openCommand("windows", `C:\r\summary.md`)
	assert.Equal(t, "rundll32", name)
	assert.Equal(t, []string{"url.dll,FileProtocolHandler", `C:\r\summary.md`}, args)

	name, args = openCommand("darwin", "/r/summary.md")
	assert.Equal(t, "open", name)
	assert.Equal(t, []string{"/r/summary.md"}, args)

	name, _ = openCommand("freebsd", "/r/summary.md")
	assert.Equal(t, "xdg-open", name)

	assert.Equal(t, []string{"explorer"}, fallbackCommands("windows"))
	assert.Nil(t, fallbackCommands("darwin"))
}
