package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// Format holds the PCM format of a WAV payload.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// ParseWAV parses a WAV file and returns the format and raw PCM data.
func ParseWAV(data []byte) (*Format, []byte, error) {
	reader := bytes.NewReader(data)

	riff := make([]byte, 4)
	if _, err := io.ReadFull(reader, riff); err != nil {
		return nil, nil, err
	}
	if string(riff) != "RIFF" {
		return nil, nil, errors.New("not a RIFF file")
	}

	// Skip file size.
	reader.Seek(4, io.SeekCurrent)

	wave := make([]byte, 4)
	if _, err := io.ReadFull(reader, wave); err != nil {
		return nil, nil, err
	}
	if string(wave) != "WAVE" {
		return nil, nil, errors.New("not a WAVE file")
	}

	format := &Format{}
	var dataStart int64
	var dataSize uint32

	for {
		chunkID := make([]byte, 4)
		if _, err := io.ReadFull(reader, chunkID); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, nil, err
		}

		var chunkSize uint32
		if err := binary.Read(reader, binary.LittleEndian, &chunkSize); err != nil {
			return nil, nil, err
		}

		switch string(chunkID) {
		case "fmt ":
			var audioFormat uint16
			binary.Read(reader, binary.LittleEndian, &audioFormat)

			var numChannels uint16
			binary.Read(reader, binary.LittleEndian, &numChannels)
			format.Channels = int(numChannels)

			var sampleRate uint32
			binary.Read(reader, binary.LittleEndian, &sampleRate)
			format.SampleRate = int(sampleRate)

			// Skip byte rate and block align.
			reader.Seek(6, io.SeekCurrent)

			var bitsPerSample uint16
			binary.Read(reader, binary.LittleEndian, &bitsPerSample)
			format.BitDepth = int(bitsPerSample)

			// Skip any extra format bytes.
			if remaining := int64(chunkSize) - 16; remaining > 0 {
				reader.Seek(remaining, io.SeekCurrent)
			}
		case "data":
			dataStart, _ = reader.Seek(0, io.SeekCurrent)
			dataSize = chunkSize
		default:
			reader.Seek(int64(chunkSize), io.SeekCurrent)
		}
		if dataSize > 0 {
			break
		}
	}

	if format.SampleRate == 0 || dataSize == 0 {
		return nil, nil, errors.New("wav: missing fmt or data chunk")
	}

	pcm := make([]byte, dataSize)
	reader.Seek(dataStart, io.SeekStart)
	if _, err := io.ReadFull(reader, pcm); err != nil {
		return nil, nil, err
	}

	return format, pcm, nil
}

// EncodeWAV wraps 16-bit PCM samples in a WAV container.
func EncodeWAV(samples []int16, sampleRate, channels int) []byte {
	dataSize := len(samples) * 2
	buf := &bytes.Buffer{}

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*channels*2)) // byte rate
	binary.Write(buf, binary.LittleEndian, uint16(channels*2))            // block align
	binary.Write(buf, binary.LittleEndian, uint16(16))                    // bit depth

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
	binary.Write(buf, binary.LittleEndian, samples)

	return buf.Bytes()
}
