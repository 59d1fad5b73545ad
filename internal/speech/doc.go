// Package speech is the synthesized-voice fallback. Platform engines live
// in the engines subpackage behind the Backend interface; Synthesizer adds
// voice roles, delayed starts and cancellation on top of them.
package speech
