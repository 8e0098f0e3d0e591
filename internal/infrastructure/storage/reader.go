package storage

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"camp-engine/internal/domain"
)

func (s *ReplayService) Load(path string) (*domain.ReplaySession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "open replay file")
	}
	defer f.Close()

	return ReadBinary(bufio.NewReader(f))
}

// ReadBinary разбирает то, что записал WriteBinary. Неизвестный тип
// команды считается порчей файла.
func ReadBinary(r io.Reader) (*domain.ReplaySession, error) {
	// 1. Читаем заголовок целиком
	var header ReplayFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, eris.Wrap(ErrBadReplay, "failed to read header: "+err.Error())
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, eris.Wrapf(ErrBadReplay, "invalid magic %q", header.Magic[:])
	}
	if header.Version != Version1 {
		return nil, eris.Wrapf(ErrBadReplay, "unsupported version: %d (expected %d)", header.Version, Version1)
	}
	if header.ActionCount < 0 {
		return nil, eris.Wrapf(ErrBadReplay, "negative action count %d", header.ActionCount)
	}

	session := &domain.ReplaySession{
		Seed:      header.Seed,
		Timestamp: header.Timestamp,
		LevelID:   int(header.LevelID),
		Actions:   make([]domain.ReplayAction, 0, header.ActionCount),
	}

	// 2. Читаем команды
	for i := 0; i < int(header.ActionCount); i++ {
		var ah ActionHeader
		if err := binary.Read(r, binary.LittleEndian, &ah); err != nil {
			return nil, eris.Wrapf(ErrBadReplay, "action %d header: %v", i, err)
		}

		cmd := domain.CommandType(ah.Command)
		if !cmd.Valid() {
			return nil, eris.Wrapf(ErrBadReplay, "action %d has unknown command %d", i, ah.Command)
		}
		act := domain.ReplayAction{Turn: int(ah.Turn), Command: cmd}

		if ah.PayloadLen > 0 {
			act.Payload = make([]byte, ah.PayloadLen)
			if _, err := io.ReadFull(r, act.Payload); err != nil {
				return nil, eris.Wrapf(ErrBadReplay, "action %d payload: %v", i, err)
			}
		}

		session.Actions = append(session.Actions, act)
	}

	return session, nil
}
