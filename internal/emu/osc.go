package emu

import (
	"bytes"
	"strconv"
)

func (e *Emulator) beginOSC() {
	e.m = modeOSCString
	e.strBuf = e.strBuf[:0]
	e.strEscSeen = false
}

// stepOSC accumulates the OSC payload until BEL or ESC \ (ST) terminates it.
// ESC is tracked as a one-byte lookahead inside string mode itself (not by
// falling through to the generic escape handler) since the only escape
// sequence meaningful inside a string is its own terminator.
func (e *Emulator) stepOSC(r rune) {
	if e.strEscSeen {
		e.strEscSeen = false
		if r == '\\' {
			e.finishOSC()
			e.m = modeGround
			return
		}
		// Not a valid ST: abandon the string silently and reprocess r as
		// ground-state input, matching "malformed sequences abandoned".
		e.m = modeGround
		e.step(r)
		return
	}
	switch r {
	case 0x07:
		e.finishOSC()
		e.m = modeGround
	case 0x1b:
		e.strEscSeen = true
	default:
		e.strBuf = append(e.strBuf, byte(r))
	}
}

// stepDiscardString consumes DCS/APC/PM/SOS payloads up to their string
// terminator (BEL, or ESC \) without retaining content — the spec requires
// these to be parsed to terminator and discarded.
func (e *Emulator) stepDiscardString(r rune, self mode) {
	if e.strEscSeen {
		e.strEscSeen = false
		if r == '\\' {
			e.m = modeGround
			return
		}
		e.m = modeGround
		e.step(r)
		return
	}
	switch r {
	case 0x07:
		e.m = modeGround
	case 0x1b:
		e.strEscSeen = true
	}
}

func (e *Emulator) finishOSC() {
	parts := bytes.SplitN(e.strBuf, []byte{';'}, 2)
	if len(parts) < 1 {
		return
	}
	code, err := strconv.Atoi(string(parts[0]))
	if err != nil {
		return
	}
	var payload string
	if len(parts) == 2 {
		payload = string(parts[1])
	}
	switch code {
	case 0, 1, 2:
		e.title = payload
		if e.OnTitle != nil {
			e.OnTitle(payload)
		}
	case 10, 11:
		if payload == "?" && e.OnRespond != nil {
			// OSC 10/11 color queries are recognized but not answered: the
			// emulator has no palette, and nothing is sent via OnRespond.
		}
	}
}
