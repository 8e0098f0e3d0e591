package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"camp-engine/internal/domain"
)

const (
	MagicHeader string = `CMRP` // 4 байта
	Version1    uint32 = 1

	// FileExt - расширение файлов записи.
	FileExt = ".cmrp"
)

var ErrBadReplay = eris.New("malformed replay file")

// ReplayFileHeader - это точное представление заголовка файла в памяти.
// binary.Write умеет писать это целиком, так как тут нет слайсов и строк, только массивы и числа.
type ReplayFileHeader struct {
	Magic       [4]byte // 4 байта
	Version     uint32  // 4 байта
	Seed        int64   // 8 байт
	Timestamp   int64   // 8 байт
	LevelID     int32   // 4 байта
	ActionCount int32   // 4 байта
}

// ActionHeader - заголовок каждой записанной команды.
type ActionHeader struct {
	Turn       int32  // 4
	Command    uint8  // 1
	Reserved   uint8  // 1
	PayloadLen uint16 // 2
}

type ReplayService struct {
	SaveDir string
}

// NewReplayService создаёт папку записей, если её ещё нет.
func NewReplayService(dir string) (*ReplayService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "create replay dir %s", dir)
	}
	return &ReplayService{SaveDir: dir}, nil
}

// Save пишет партию в новый файл и возвращает путь к нему.
func (s *ReplayService) Save(session *domain.ReplaySession) (string, error) {
	filename := fmt.Sprintf("replay_%d_lvl%d_%s%s", session.Seed, session.LevelID, uuid.NewString(), FileExt)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", eris.Wrap(err, "create replay file")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := WriteBinary(w, session); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", eris.Wrap(err, "flush replay file")
	}
	return path, nil
}

// WriteBinary сериализует партию: заголовок, затем записи команд.
func WriteBinary(w io.Writer, s *domain.ReplaySession) error {
	// 1. Подготавливаем и пишем ГЛОБАЛЬНЫЙ ЗАГОЛОВОК
	header := ReplayFileHeader{
		Version:     Version1,
		Seed:        s.Seed,
		Timestamp:   s.Timestamp,
		LevelID:     int32(s.LevelID),
		ActionCount: int32(len(s.Actions)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return eris.Wrap(err, "failed to write header")
	}

	// 2. Пишем команды
	for _, act := range s.Actions {
		payloadLen := len(act.Payload)
		if payloadLen > 65535 {
			return eris.Errorf("payload too long: %d", payloadLen)
		}

		actHeader := ActionHeader{
			Turn:       int32(act.Turn),
			Command:    uint8(act.Command),
			PayloadLen: uint16(payloadLen),
		}
		if err := binary.Write(w, binary.LittleEndian, &actHeader); err != nil {
			return eris.Wrapf(err, "write action header at turn %d", act.Turn)
		}
		if payloadLen > 0 {
			if _, err := w.Write(act.Payload); err != nil {
				return eris.Wrapf(err, "write payload at turn %d", act.Turn)
			}
		}
	}

	return nil
}
