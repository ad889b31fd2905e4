//go:build darwin
// +build darwin

package desktop

import (
	"fmt"
	"strings"

	"github.com/vertextoedge/linkguard/internal/port"
)

const (
	supportsClick = false
	defaultAction = ""
)

const defaultCueSound = "/System/Library/Sounds/Glass.aiff"

func openCommand(rawURL string) command {
	return command{name: "open", args: []string{rawURL}}
}

func revealCommands(filePath string) []command {
	return []command{{name: "open", args: []string{"-R", filePath}}}
}

func notifyCommand(n port.Notification, _ bool) command {
	script := fmt.Sprintf("display notification %s with title %s", appleString(n.Body), appleString(n.Title))
	if !n.Silent {
		script += ` sound name "default"`
	}
	return command{name: "osascript", args: []string{"-e", script}}
}

func cueCommands(sound string) []command {
	if sound == "" {
		sound = defaultCueSound
	}
	return []command{{name: "afplay", args: []string{sound}}}
}

// appleString quotes s as an AppleScript string literal
func appleString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
