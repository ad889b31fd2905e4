//go:build !darwin && !windows
// +build !darwin,!windows

package desktop

import (
	"net/url"
	"path/filepath"

	"github.com/vertextoedge/linkguard/internal/port"
)

// notify-send --wait prints the invoked action name
const (
	supportsClick = true
	defaultAction = "default"
)

const defaultCueSound = "/usr/share/sounds/freedesktop/stereo/complete.oga"

func openCommand(rawURL string) command {
	return command{name: "xdg-open", args: []string{rawURL}}
}

func revealCommands(filePath string) []command {
	uri := (&url.URL{Scheme: "file", Path: filePath}).String()
	return []command{
		{name: "dbus-send", args: []string{
			"--session", "--print-reply",
			"--dest=org.freedesktop.FileManager1",
			"--type=method_call",
			"/org/freedesktop/FileManager1",
			"org.freedesktop.FileManager1.ShowItems",
			"array:string:" + uri,
			"string:",
		}},
		{name: "xdg-open", args: []string{filepath.Dir(filePath)}},
	}
}

func notifyCommand(n port.Notification, clickable bool) command {
	args := []string{"--app-name=linkguard"}
	if n.Silent {
		args = append(args, "--hint=boolean:suppress-sound:true")
	}
	if clickable {
		args = append(args, "--action="+defaultAction+"=Show in folder", "--wait")
	}
	args = append(args, n.Title, n.Body)
	return command{name: "notify-send", args: args}
}

func cueCommands(sound string) []command {
	if sound != "" {
		return []command{
			{name: "paplay", args: []string{sound}},
			{name: "aplay", args: []string{"-q", sound}},
		}
	}
	return []command{
		{name: "canberra-gtk-play", args: []string{"--id=complete"}},
		{name: "paplay", args: []string{defaultCueSound}},
	}
}
