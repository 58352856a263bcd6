package belote

import "sync"

// Seating maps connections to the four seats. Claims are check-and-set under
// one lock so two connections can never hold the same seat.
type Seating struct {
	mu          sync.Mutex
	seats       [SeatCount]string
	conns       map[string]Seat
	noObservers bool
}

func NewSeating(noObservers bool) *Seating {
	return &Seating{
		conns:       make(map[string]Seat),
		noObservers: noObservers,
	}
}

// Claim gives connID the first free seat in N,E,S,W order, or the observer
// role once the table is full. Claiming twice returns the same seat.
func (st *Seating) Claim(connID string) (Seat, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if s, ok := st.conns[connID]; ok {
		return s, nil
	}
	for _, s := range Seats {
		if st.seats[s] == "" {
			st.seats[s] = connID
			st.conns[connID] = s
			return s, nil
		}
	}
	if st.noObservers {
		return NoSeat, reject(SeatUnavailable, NoSeat, "game full (%d/%d)", SeatCount, SeatCount)
	}
	st.conns[connID] = Observer
	return Observer, nil
}

// Release frees whatever connID held.
func (st *Seating) Release(connID string) (Seat, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.conns[connID]
	if !ok {
		return NoSeat, false
	}
	delete(st.conns, connID)
	if s.Valid() {
		st.seats[s] = ""
	}
	return s, true
}

func (st *Seating) SeatOf(connID string) (Seat, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.conns[connID]
	return s, ok
}

func (st *Seating) ConnAt(s Seat) string {
	if !s.Valid() {
		return ""
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.seats[s]
}

func (st *Seating) Seated() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for _, id := range st.seats {
		if id != "" {
			n++
		}
	}
	return n
}

func (st *Seating) Connected() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.conns)
}

func (st *Seating) Full() bool { return st.Seated() == SeatCount }
