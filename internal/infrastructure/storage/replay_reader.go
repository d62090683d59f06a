package storage

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"frontline-server/internal/domain"
	"frontline-server/internal/systems"
)

// MaxReplaySize - предел размера файла повтора.
const MaxReplaySize = 64 << 20

// ErrCorruptReplay - счетчики или кадры заголовка не сходятся с содержимым.
var ErrCorruptReplay = errors.New("corrupt replay")

var commandHeaderSize = binary.Size(CommandHeader{})

// Load читает журнал из файла.
func (s *ReplayStore) Load(path string) (domain.ReplayLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.ReplayLog{}, err
	}
	defer f.Close()

	return ReadReplay(bufio.NewReader(f))
}

// ReadReplay разбирает формат WriteReplay. Счетчики заголовка сверяются
// с оставшейся длиной до выделения памяти.
func ReadReplay(src io.Reader) (domain.ReplayLog, error) {
	data, err := io.ReadAll(io.LimitReader(src, MaxReplaySize+1))
	if err != nil {
		return domain.ReplayLog{}, fmt.Errorf("failed to read replay: %w", err)
	}
	if len(data) > MaxReplaySize {
		return domain.ReplayLog{}, fmt.Errorf("%w: file exceeds %d bytes", ErrCorruptReplay, MaxReplaySize)
	}
	r := bytes.NewReader(data)

	// 1. Заголовок целиком
	var header ReplayFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return domain.ReplayLog{}, fmt.Errorf("failed to read header: %w", err)
	}
	if string(header.Magic[:]) != MagicHeader {
		return domain.ReplayLog{}, fmt.Errorf("invalid magic")
	}
	if header.Version != Version1 {
		return domain.ReplayLog{}, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}

	frameBytes := int64(header.FrameCount) * 8
	commandBytes := int64(header.CommandCount) * int64(commandHeaderSize)
	if frameBytes+commandBytes > int64(r.Len()) {
		return domain.ReplayLog{}, fmt.Errorf("%w: %d frames and %d commands do not fit in %d bytes",
			ErrCorruptReplay, header.FrameCount, header.CommandCount, r.Len())
	}

	log := domain.ReplayLog{
		Seed:       header.Seed,
		StartedAt:  time.UnixMilli(header.StartedAt).UTC(),
		ScenarioID: int(header.Scenario),
		Difficulty: systems.Difficulty(header.Difficulty).String(),
		Commands:   make([]domain.ReplayCommand, header.CommandCount),
	}

	// 2. Кадры
	if header.FrameCount > 0 {
		log.Frames = make([]float64, header.FrameCount)
		if err := binary.Read(r, binary.LittleEndian, log.Frames); err != nil {
			return domain.ReplayLog{}, fmt.Errorf("failed to read frames: %w", err)
		}
		for i, dt := range log.Frames {
			if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
				return domain.ReplayLog{}, fmt.Errorf("%w: frame %d has delta %v", ErrCorruptReplay, i, dt)
			}
		}
	}

	// 3. Команды
	for i := range log.Commands {
		var ch CommandHeader
		if err := binary.Read(r, binary.LittleEndian, &ch); err != nil {
			return domain.ReplayLog{}, fmt.Errorf("failed to read command %d: %w", i, err)
		}

		cmd := domain.ReplayCommand{
			Frame:   int64(ch.Frame),
			Tick:    ch.Tick,
			Time:    ch.Time,
			Command: domain.CommandType(ch.Command),
		}
		if ch.PayloadLen > 0 {
			cmd.Payload = make(json.RawMessage, ch.PayloadLen)
			if _, err := io.ReadFull(r, cmd.Payload); err != nil {
				return domain.ReplayLog{}, fmt.Errorf("failed to read payload %d: %w", i, err)
			}
		}
		log.Commands[i] = cmd
	}
	return log, nil
}
