package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"frontline-server/internal/domain"
	"frontline-server/internal/systems"
)

const (
	MagicHeader string = `FLRP` // 4 байта
	Version1    uint32 = 1
	ReplayExt          = ".flrp"
)

// ReplayFileHeader - точное представление заголовка файла.
// Только массивы и числа, binary.Write пишет его целиком.
type ReplayFileHeader struct {
	Magic        [4]byte // 4 байта
	Version      uint32  // 4
	Seed         int64   // 8
	StartedAt    int64   // 8, unix ms
	Scenario     int32   // 4
	Difficulty   uint8   // 1
	_            [3]byte // выравнивание
	FrameCount   uint32  // 4
	CommandCount uint32  // 4
}

// CommandHeader - заголовок каждой команды, за ним идет payload.
type CommandHeader struct {
	Frame      uint32 // 4
	Tick       int64  // 8
	Time       int64  // 8
	Command    uint8  // 1
	_          uint8  // 1
	PayloadLen uint16 // 2
}

// ReplayStore хранит журналы повтора файлами в каталоге.
type ReplayStore struct {
	Dir string
}

func NewReplayStore(dir string) (*ReplayStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create replay dir: %w", err)
	}
	return &ReplayStore{Dir: dir}, nil
}

// Save пишет журнал в файл replay_<seed>_<scenario>_<startedAt>.flrp и возвращает путь.
func (s *ReplayStore) Save(log domain.ReplayLog) (string, error) {
	filename := fmt.Sprintf("replay_%d_sc%d_%d%s", log.Seed, log.ScenarioID, log.StartedAt.UnixMilli(), ReplayExt)
	path := filepath.Join(s.Dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := WriteReplay(w, log); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return path, nil
}

// WriteReplay кодирует журнал: заголовок, дельты кадров, команды.
func WriteReplay(w io.Writer, log domain.ReplayLog) error {
	// 1. Заголовок
	header := ReplayFileHeader{
		Version:      Version1,
		Seed:         log.Seed,
		StartedAt:    log.StartedAt.UnixMilli(),
		Scenario:     int32(log.ScenarioID),
		Difficulty:   uint8(systems.ParseDifficulty(log.Difficulty)),
		FrameCount:   uint32(len(log.Frames)),
		CommandCount: uint32(len(log.Commands)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// 2. Дельты кадров одним блоком
	if len(log.Frames) > 0 {
		if err := binary.Write(w, binary.LittleEndian, log.Frames); err != nil {
			return fmt.Errorf("failed to write frames: %w", err)
		}
	}

	// 3. Команды
	for i, cmd := range log.Commands {
		payloadLen := len(cmd.Payload)
		if payloadLen > 65535 {
			return fmt.Errorf("command %d: payload too long: %d", i, payloadLen)
		}

		ch := CommandHeader{
			Frame:      uint32(cmd.Frame),
			Tick:       cmd.Tick,
			Time:       cmd.Time,
			Command:    uint8(cmd.Command),
			PayloadLen: uint16(payloadLen),
		}
		if err := binary.Write(w, binary.LittleEndian, &ch); err != nil {
			return err
		}
		if payloadLen > 0 {
			if _, err := w.Write(cmd.Payload); err != nil {
				return err
			}
		}
	}
	return nil
}
