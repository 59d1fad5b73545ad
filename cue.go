package main

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	errInvalidCue = errors.New("cue is not a JSON object")
	errEmptyCue   = errors.New("cue has neither id nor text")
)

// cue is one message on the bridge file written by the game hook:
//
//	{"id": "abc-123", "text": "Hello there"}
//	{"stop": true}
type cue struct {
	ID   string
	Text string
	Stop bool
}

func parseCue(data []byte) (cue, error) {
	if !gjson.ValidBytes(data) {
		return cue{}, errInvalidCue
	}
	r := gjson.ParseBytes(data)
	if !r.IsObject() {
		return cue{}, errInvalidCue
	}

	c := cue{
		ID:   strings.TrimSpace(r.Get("id").String()),
		Text: r.Get("text").String(),
		Stop: r.Get("stop").Bool(),
	}
	if c.Stop {
		return c, nil
	}
	if c.ID == "" && strings.TrimSpace(c.Text) == "" {
		return cue{}, errEmptyCue
	}
	return c, nil
}
