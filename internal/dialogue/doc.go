// Package dialogue decides how a displayed dialogue line is voiced: authored
// game audio is left alone, a pre-recorded clip is played when one exists
// for the line's ID (or for the ID its text resolves to), and synthesized
// speech is the last resort.
//
// The resolver never reports failures to its caller. Every branch is logged
// and the caller only ever sees HandleLine return.
package dialogue
