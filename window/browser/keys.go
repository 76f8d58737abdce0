// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build js && wasm

package browser

import (
	"strconv"
	"strings"

	"github.com/gogpu/gpucontext"
)

// codes maps KeyboardEvent.code values outside the letter, digit,
// function and numpad digit ranges.
var codes = map[string]gpucontext.Key{
	"Escape":         gpucontext.KeyEscape,
	"Tab":            gpucontext.KeyTab,
	"Backspace":      gpucontext.KeyBackspace,
	"Enter":          gpucontext.KeyEnter,
	"Space":          gpucontext.KeySpace,
	"Insert":         gpucontext.KeyInsert,
	"Delete":         gpucontext.KeyDelete,
	"Home":           gpucontext.KeyHome,
	"End":            gpucontext.KeyEnd,
	"PageUp":         gpucontext.KeyPageUp,
	"PageDown":       gpucontext.KeyPageDown,
	"ArrowLeft":      gpucontext.KeyLeft,
	"ArrowRight":     gpucontext.KeyRight,
	"ArrowUp":        gpucontext.KeyUp,
	"ArrowDown":      gpucontext.KeyDown,
	"ShiftLeft":      gpucontext.KeyLeftShift,
	"ShiftRight":     gpucontext.KeyRightShift,
	"ControlLeft":    gpucontext.KeyLeftControl,
	"ControlRight":   gpucontext.KeyRightControl,
	"AltLeft":        gpucontext.KeyLeftAlt,
	"AltRight":       gpucontext.KeyRightAlt,
	"MetaLeft":       gpucontext.KeyLeftSuper,
	"MetaRight":      gpucontext.KeyRightSuper,
	"Minus":          gpucontext.KeyMinus,
	"Equal":          gpucontext.KeyEqual,
	"BracketLeft":    gpucontext.KeyLeftBracket,
	"BracketRight":   gpucontext.KeyRightBracket,
	"Backslash":      gpucontext.KeyBackslash,
	"Semicolon":      gpucontext.KeySemicolon,
	"Quote":          gpucontext.KeyApostrophe,
	"Backquote":      gpucontext.KeyGrave,
	"Comma":          gpucontext.KeyComma,
	"Period":         gpucontext.KeyPeriod,
	"Slash":          gpucontext.KeySlash,
	"NumpadDecimal":  gpucontext.KeyNumpadDecimal,
	"NumpadDivide":   gpucontext.KeyNumpadDivide,
	"NumpadMultiply": gpucontext.KeyNumpadMultiply,
	"NumpadSubtract": gpucontext.KeyNumpadSubtract,
	"NumpadAdd":      gpucontext.KeyNumpadAdd,
	"NumpadEnter":    gpucontext.KeyNumpadEnter,
	"CapsLock":       gpucontext.KeyCapsLock,
	"ScrollLock":     gpucontext.KeyScrollLock,
	"NumLock":        gpucontext.KeyNumLock,
	"PrintScreen":    gpucontext.KeyPrintScreen,
	"Pause":          gpucontext.KeyPause,
}

// mapCode converts a KeyboardEvent.code, which names the physical key
// independent of layout.
func mapCode(code string) gpucontext.Key {
	if k, ok := codes[code]; ok {
		return k
	}
	switch {
	case len(code) == 4 && strings.HasPrefix(code, "Key") && code[3] >= 'A' && code[3] <= 'Z':
		return gpucontext.KeyA + gpucontext.Key(code[3]-'A')
	case len(code) == 6 && strings.HasPrefix(code, "Digit") && code[5] >= '0' && code[5] <= '9':
		return gpucontext.Key0 + gpucontext.Key(code[5]-'0')
	case len(code) == 7 && strings.HasPrefix(code, "Numpad") && code[6] >= '0' && code[6] <= '9':
		return gpucontext.KeyNumpad0 + gpucontext.Key(code[6]-'0')
	case strings.HasPrefix(code, "F"):
		if n, err := strconv.Atoi(code[1:]); err == nil && n >= 1 && n <= 12 {
			return gpucontext.KeyF1 + gpucontext.Key(n-1)
		}
	}
	return gpucontext.KeyUnknown
}
