package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidWAV is returned when a buffer is not a 16-bit PCM WAV file.
var ErrInvalidWAV = errors.New("invalid wav data")

const (
	riffHeaderSize  = 12
	chunkHeaderSize = 8
	fmtChunkMinSize = 16
	wavFormatPCM    = 1
	wavFormatExt    = 0xFFFE
)

// Format describes interleaved signed 16-bit little-endian PCM.
type Format struct {
	SampleRate int
	Channels   int
}

// FrameSize returns the number of bytes in one frame.
func (f Format) FrameSize() int {
	return f.Channels * 2
}

// Valid reports whether the format can be played.
func (f Format) Valid() bool {
	return f.SampleRate > 0 && f.Channels > 0
}

func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dch", f.SampleRate, f.Channels)
}

// Payload is a decoded clip ready for playback. Payloads are shared between
// the cache and the player and must not be mutated.
type Payload struct {
	ID     string
	Format Format
	Data   []byte
}

// Duration returns the play time of the payload.
func (p *Payload) Duration() time.Duration {
	if p == nil || !p.Format.Valid() {
		return 0
	}
	frames := len(p.Data) / p.Format.FrameSize()
	return time.Duration(frames) * time.Second / time.Duration(p.Format.SampleRate)
}

// Size returns the length of the PCM data in bytes.
func (p *Payload) Size() int {
	if p == nil {
		return 0
	}
	return len(p.Data)
}

// DecodeWAV extracts the PCM frames of a RIFF/WAVE buffer. Unknown chunks
// (LIST, fact, ...) are skipped. A data chunk whose declared size runs past
// the end of the buffer is cut to the whole frames present.
func DecodeWAV(id string, data []byte) (*Payload, error) {
	if len(data) < riffHeaderSize || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: missing RIFF/WAVE header", ErrInvalidWAV)
	}

	var (
		format    Format
		haveFmt   bool
		pcm       []byte
		foundData bool
	)

	offset := riffHeaderSize
	for offset+chunkHeaderSize <= len(data) {
		chunkID := string(data[offset : offset+4])
		size := int(binary.LittleEndian.Uint32(data[offset+4 : offset+chunkHeaderSize]))
		body := offset + chunkHeaderSize
		end := body + size
		if end > len(data) {
			end = len(data)
		}

		switch chunkID {
		case "fmt ":
			f, err := parseFmtChunk(data[body:end])
			if err != nil {
				return nil, err
			}
			format, haveFmt = f, true
		case "data":
			pcm, foundData = data[body:end], true
		}
		if foundData && haveFmt {
			break
		}

		// Chunks are word aligned.
		offset = end + size%2
	}

	if !haveFmt {
		return nil, fmt.Errorf("%w: no fmt chunk", ErrInvalidWAV)
	}
	if !foundData {
		return nil, fmt.Errorf("%w: no data chunk", ErrInvalidWAV)
	}

	frames := len(pcm) / format.FrameSize()
	if frames == 0 {
		return nil, fmt.Errorf("%w: empty data chunk", ErrInvalidWAV)
	}

	out := make([]byte, frames*format.FrameSize())
	copy(out, pcm)
	return &Payload{ID: id, Format: format, Data: out}, nil
}

func parseFmtChunk(b []byte) (Format, error) {
	if len(b) < fmtChunkMinSize {
		return Format{}, fmt.Errorf("%w: short fmt chunk", ErrInvalidWAV)
	}

	tag := binary.LittleEndian.Uint16(b[0:2])
	channels := int(binary.LittleEndian.Uint16(b[2:4]))
	rate := int(binary.LittleEndian.Uint32(b[4:8]))
	bits := binary.LittleEndian.Uint16(b[14:16])

	if tag != wavFormatPCM && tag != wavFormatExt {
		return Format{}, fmt.Errorf("%w: unsupported format tag %#x", ErrInvalidWAV, tag)
	}
	if bits != 16 {
		return Format{}, fmt.Errorf("%w: %d-bit samples, want 16", ErrInvalidWAV, bits)
	}

	f := Format{SampleRate: rate, Channels: channels}
	if !f.Valid() {
		return Format{}, fmt.Errorf("%w: bad format %s", ErrInvalidWAV, f)
	}
	return f, nil
}

// EncodeWAV wraps a payload in a canonical 44-byte header WAV container.
func EncodeWAV(p *Payload) []byte {
	const headerSize = 44

	out := make([]byte, headerSize+len(p.Data))
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(headerSize-8+len(p.Data)))
	copy(out[8:12], "WAVE")
	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], wavFormatPCM)
	binary.LittleEndian.PutUint16(out[22:24], uint16(p.Format.Channels))
	binary.LittleEndian.PutUint32(out[24:28], uint32(p.Format.SampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(p.Format.SampleRate*p.Format.FrameSize()))
	binary.LittleEndian.PutUint16(out[32:34], uint16(p.Format.FrameSize()))
	binary.LittleEndian.PutUint16(out[34:36], 16)
	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(len(p.Data)))
	copy(out[headerSize:], p.Data)
	return out
}
