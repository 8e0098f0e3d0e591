package domain

// DefaultLogCapacity - сколько последних сообщений хранит игровой лог.
const DefaultLogCapacity = 64

// MessageLog - кольцевой буфер игровых сообщений ("X was killed").
// Каждое добавление сопровождается событием log_updated.
type MessageLog struct {
	entries []string
	limit   int
}

func NewMessageLog(limit int) *MessageLog {
	return &MessageLog{limit: limit}
}

func (l *MessageLog) Add(msg string) {
	l.entries = append(l.entries, msg)
	if over := len(l.entries) - l.limit; over > 0 {
		l.entries = l.entries[over:]
	}
}

// Last возвращает до n последних сообщений, старые первыми.
func (l *MessageLog) Last(n int) []string {
	if n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]string, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

func (l *MessageLog) Len() int {
	return len(l.entries)
}
