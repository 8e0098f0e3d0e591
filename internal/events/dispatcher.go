package events

import (
	"slices"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"camp-engine/internal/domain"
	"camp-engine/pkg/logger"
)

// Listener получает события в порядке регистрации. Контракт слушателя -
// только побочные эффекты, без паники. Добавлять новые события в очередь
// изнутри обработчика можно: они будут доставлены в этом же проходе.
type Listener interface {
	ProcessGameEvent(ev domain.GameEvent)
}

type funcListener struct {
	fn func(ev domain.GameEvent)
}

func (l *funcListener) ProcessGameEvent(ev domain.GameEvent) { l.fn(ev) }

// ListenerFunc адаптирует функцию к Listener. Каждый вызов даёт отдельного
// слушателя (функции несравнимы, а отписка ищет слушателя по равенству).
func ListenerFunc(fn func(ev domain.GameEvent)) Listener {
	return &funcListener{fn: fn}
}

// Dispatcher - FIFO-очередь событий симуляции и упорядоченный список слушателей.
// Однопоточный: работает только внутри хода.
type Dispatcher struct {
	queue     []domain.GameEvent
	listeners []Listener
	log       *logrus.Entry
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{log: logger.Component("events")}
}

// Append ставит событие в очередь. Тип вне перечня - ошибка.
func (d *Dispatcher) Append(ev domain.GameEvent) error {
	if err := ev.Validate(); err != nil {
		return eris.Wrap(err, "append event")
	}
	d.queue = append(d.queue, ev)
	return nil
}

// Emit собирает событие с местом из actor и ставит в очередь.
func (d *Dispatcher) Emit(t domain.EventType, actor *domain.Entity) error {
	ev, err := domain.NewGameEvent(t, actor)
	if err != nil {
		return err
	}
	return d.Append(ev)
}

// EmitAt - то же с явным местом.
func (d *Dispatcher) EmitAt(t domain.EventType, actor *domain.Entity, loc domain.Position) error {
	ev, err := domain.NewGameEventAt(t, actor, loc)
	if err != nil {
		return err
	}
	return d.Append(ev)
}

// RegisterListener добавляет слушателя в конец списка. Повторная регистрация игнорируется.
func (d *Dispatcher) RegisterListener(l Listener) {
	if slices.Contains(d.listeners, l) {
		return
	}
	d.listeners = append(d.listeners, l)
}

// UnregisterListener убирает слушателя; false, если его не было.
func (d *Dispatcher) UnregisterListener(l Listener) bool {
	i := slices.Index(d.listeners, l)
	if i < 0 {
		return false
	}
	d.listeners = slices.Delete(d.listeners, i, i+1)
	return true
}

// PassEvent снимает одно событие с головы и раздаёт его всем слушателям.
// Возвращает false на пустой очереди.
func (d *Dispatcher) PassEvent() bool {
	if len(d.queue) == 0 {
		return false
	}
	ev := d.queue[0]
	d.queue[0] = domain.GameEvent{}
	d.queue = d.queue[1:]

	// Копия: слушатель может отписаться во время обработки
	for _, l := range slices.Clone(d.listeners) {
		l.ProcessGameEvent(ev)
	}
	return true
}

// PassAllEvents добавляет маркер queue_exhausted и раздаёт очередь до
// опустошения. Возвращает число доставленных событий (включая маркер).
func (d *Dispatcher) PassAllEvents() int {
	// Маркер всегда валиден
	_ = d.Append(domain.GameEvent{Type: domain.EventQueueExhausted})

	n := 0
	for d.PassEvent() {
		n++
	}
	d.log.WithField("delivered", n).Debug("event queue drained")
	return n
}

// Clear выбрасывает недоставленные события (смена уровня).
func (d *Dispatcher) Clear() {
	d.queue = nil
}

func (d *Dispatcher) Len() int {
	return len(d.queue)
}

// Pending - копия недоставленных событий.
func (d *Dispatcher) Pending() []domain.GameEvent {
	return slices.Clone(d.queue)
}

// Recorder - слушатель, запоминающий всё, что видел (тесты, отладка, реплеи).
type Recorder struct {
	Events []domain.GameEvent
}

func (r *Recorder) ProcessGameEvent(ev domain.GameEvent) {
	r.Events = append(r.Events, ev)
}

// Types - типы увиденных событий по порядку.
func (r *Recorder) Types() []domain.EventType {
	out := make([]domain.EventType, len(r.Events))
	for i, ev := range r.Events {
		out[i] = ev.Type
	}
	return out
}

// Count - сколько раз встречался тип t.
func (r *Recorder) Count(t domain.EventType) int {
	n := 0
	for _, ev := range r.Events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func (r *Recorder) Reset() {
	r.Events = nil
}
