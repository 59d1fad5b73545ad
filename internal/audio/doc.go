// Package audio plays decoded dialogue clips. It owns the WAV container
// reader, the PCM conversion to the output device format and the oto-backed
// Player that schedules delayed starts.
package audio
