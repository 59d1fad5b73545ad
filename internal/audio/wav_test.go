package audio

import (
	"encoding/binary"
	"errors"
	"testing"
	"time"
)

func testPayload(id string, f Format, frames int) *Payload {
	data := make([]byte, frames*f.FrameSize())
	for i := 0; i < len(data)/2; i++ {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(int16(i*7)))
	}
	return &Payload{ID: id, Format: f, Data: data}
}

func TestDecodeWAVRoundTrip(t *testing.T) {
	want := testPayload("abc-123", Format{SampleRate: 22050, Channels: 1}, 441)

	got, err := DecodeWAV("abc-123", EncodeWAV(want))
	if err != nil {
		t.Fatalf("DecodeWAV: %v", err)
	}
	if got.Format != want.Format {
		t.Errorf("format = %s, want %s", got.Format, want.Format)
	}
	if string(got.Data) != string(want.Data) {
		t.Errorf("data mismatch: got %d bytes, want %d", len(got.Data), len(want.Data))
	}
	if d := got.Duration(); d != 20*time.Millisecond {
		t.Errorf("duration = %v, want 20ms", d)
	}
}

func TestDecodeWAVSkipsUnknownChunks(t *testing.T) {
	p := testPayload("x", Format{SampleRate: 44100, Channels: 2}, 10)
	wav := EncodeWAV(p)

	// Insert an odd-sized LIST chunk (with pad byte) between fmt and data.
	list := []byte{'L', 'I', 'S', 'T', 3, 0, 0, 0, 'a', 'b', 'c', 0}
	withList := append(append(append([]byte{}, wav[:36]...), list...), wav[36:]...)

	got, err := DecodeWAV("x", withList)
	if err != nil {
		t.Fatalf("DecodeWAV: %v", err)
	}
	if len(got.Data) != len(p.Data) {
		t.Errorf("got %d bytes, want %d", len(got.Data), len(p.Data))
	}
}

func TestDecodeWAVTruncatedData(t *testing.T) {
	p := testPayload("x", Format{SampleRate: 44100, Channels: 2}, 10)
	wav := EncodeWAV(p)
	// Declared size runs past the end; one partial frame remains at the tail.
	wav = wav[:len(wav)-2]

	got, err := DecodeWAV("x", wav)
	if err != nil {
		t.Fatalf("DecodeWAV: %v", err)
	}
	if len(got.Data) != 9*4 {
		t.Errorf("got %d bytes, want %d", len(got.Data), 9*4)
	}
}

func TestDecodeWAVInvalid(t *testing.T) {
	valid := EncodeWAV(testPayload("x", Format{SampleRate: 44100, Channels: 1}, 4))

	eightBit := append([]byte{}, valid...)
	binary.LittleEndian.PutUint16(eightBit[34:36], 8)

	float := append([]byte{}, valid...)
	binary.LittleEndian.PutUint16(float[20:22], 3)

	noData := append([]byte{}, valid[:36]...)

	empty := EncodeWAV(&Payload{Format: Format{SampleRate: 44100, Channels: 1}})

	tests := []struct {
		name string
		data []byte
	}{
		{"nil", nil},
		{"zero bytes", []byte{}},
		{"not riff", []byte("RIFX0000WAVEfmt ")},
		{"header only", valid[:12]},
		{"8-bit", eightBit},
		{"float", float},
		{"no data chunk", noData},
		{"empty data chunk", empty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeWAV("x", tt.data)
			if !errors.Is(err, ErrInvalidWAV) {
				t.Errorf("expected ErrInvalidWAV, got %v", err)
			}
		})
	}
}
