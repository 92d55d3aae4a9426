package dialogue

// Exchange одна реплика пользователя и ответ ассистента на неё.
type Exchange struct {
	User      string
	Assistant string
}

// History ограниченная FIFO-история обменов. Принадлежит одному Manager,
// доступ только из одного хода, поэтому без блокировок.
type History struct {
	exchanges []Exchange
	cap       int
}

// NewHistory создаёт историю ёмкостью capacity (минимум 1).
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = 1
	}
	return &History{exchanges: make([]Exchange, 0, capacity), cap: capacity}
}

// Append добавляет обмен, при переполнении удаляет самые старые.
func (h *History) Append(e Exchange) {
	h.exchanges = append(h.exchanges, e)
	if over := len(h.exchanges) - h.cap; over > 0 {
		copy(h.exchanges, h.exchanges[over:])
		h.exchanges = h.exchanges[:h.cap]
	}
}

// Recent возвращает копию не более n последних обменов, от старых к новым.
func (h *History) Recent(n int) []Exchange {
	if n <= 0 {
		return nil
	}
	start := max(0, len(h.exchanges)-n)
	out := make([]Exchange, len(h.exchanges)-start)
	copy(out, h.exchanges[start:])
	return out
}

// All возвращает копию всей истории.
func (h *History) All() []Exchange { return h.Recent(len(h.exchanges)) }

func (h *History) Clear() { h.exchanges = h.exchanges[:0] }

func (h *History) Len() int { return len(h.exchanges) }

func (h *History) Cap() int { return h.cap }
