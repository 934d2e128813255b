// Package ui renders git and gpg invocations as short console lines when
// tidal runs with the console log format. Nothing is written above the info
// level: callers decide whether a failed probe matters and report it once.
package ui
