package audio

import (
	"encoding/binary"
	"math"
)

// Convert returns the payload's PCM data in the target format. Channels are
// duplicated or averaged and the sample rate is changed by linear
// interpolation. The input is returned as is when the formats already match.
func Convert(p *Payload, to Format) []byte {
	if p == nil || len(p.Data) == 0 || !to.Valid() {
		return nil
	}
	if p.Format == to {
		return p.Data
	}

	samples := toSamples(p.Data)
	samples = mixChannels(samples, p.Format.Channels, to.Channels)
	samples = resample(samples, to.Channels, p.Format.SampleRate, to.SampleRate)
	return fromSamples(samples)
}

func toSamples(data []byte) []int16 {
	out := make([]int16, len(data)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return out
}

func fromSamples(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func mixChannels(in []int16, from, to int) []int16 {
	if from == to {
		return in
	}

	frames := len(in) / from
	out := make([]int16, frames*to)
	for f := 0; f < frames; f++ {
		src := in[f*from : f*from+from]
		dst := out[f*to : f*to+to]

		switch {
		case to == 1:
			var sum int
			for _, s := range src {
				sum += int(s)
			}
			dst[0] = int16(sum / from)
		case from == 1:
			for c := range dst {
				dst[c] = src[0]
			}
		default:
			for c := range dst {
				dst[c] = src[c%from]
			}
		}
	}
	return out
}

func resample(in []int16, channels, from, to int) []int16 {
	if from == to || len(in) == 0 {
		return in
	}

	frames := len(in) / channels
	outFrames := int(int64(frames) * int64(to) / int64(from))
	if outFrames == 0 {
		return nil
	}

	ratio := float64(from) / float64(to)
	out := make([]int16, outFrames*channels)
	for f := 0; f < outFrames; f++ {
		pos := float64(f) * ratio
		i := int(pos)
		frac := pos - float64(i)
		next := i + 1
		if next >= frames {
			next = frames - 1
		}

		for c := 0; c < channels; c++ {
			a := float64(in[i*channels+c])
			b := float64(in[next*channels+c])
			out[f*channels+c] = clamp16(a + (b-a)*frac)
		}
	}
	return out
}

func clamp16(v float64) int16 {
	v = math.Round(v)
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	}
	return int16(v)
}
