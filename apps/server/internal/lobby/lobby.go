package lobby

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"belote-lite/apps/server/internal/ledger"
	"belote-lite/apps/server/internal/notify"
	"belote-lite/apps/server/internal/table"
	"belote-lite/belote"
	"belote-lite/belote/npc"

	"github.com/google/uuid"
)

// Lobby manages all tables and player assignments
type Lobby struct {
	mu     sync.RWMutex
	tables map[string]*table.Table

	// Default table config
	defaultConfig table.Config
	ledger        ledger.Service
	sink          notify.Sink
	registry      *npc.PersonaRegistry

	statsMu sync.Mutex
	stats   Stats
}

// Stats counts finished rounds across every table the lobby has run.
type Stats struct {
	Rounds  int `json:"rounds"`
	Halted  int `json:"halted"`
	Matches int `json:"matches"`
}

// New creates a new lobby
func New(cfg table.Config, ledgerService ledger.Service, sink notify.Sink, registry *npc.PersonaRegistry) *Lobby {
	return &Lobby{
		tables:        make(map[string]*table.Table),
		defaultConfig: cfg,
		ledger:        ledgerService,
		sink:          sink,
		registry:      registry,
	}
}

// QuickStart finds a table with a free seat or creates one.
func (l *Lobby) QuickStart(send table.SendFunc) (*table.Table, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, id := range l.sortedIDsLocked() {
		t := l.tables[id]
		if t.IsClosed() {
			continue
		}
		if t.Info().Seated < belote.SeatCount {
			log.Printf("[Lobby] QuickStart: joining existing table %s", t.ID)
			return t, nil
		}
	}
	t, err := l.createLocked(send)
	if err != nil {
		return nil, err
	}
	log.Printf("[Lobby] QuickStart: created new table %s", t.ID)
	return t, nil
}

// CreateTable always opens a fresh table.
func (l *Lobby) CreateTable(send table.SendFunc) (*table.Table, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.createLocked(send)
}

func (l *Lobby) createLocked(send table.SendFunc) (*table.Table, error) {
	tableID := uuid.NewString()
	t, err := table.New(tableID, l.defaultConfig, send, l.ledger, l.sink, l.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	t.AddRoundEndHook(l.onRoundEnd)
	l.tables[tableID] = t
	return t, nil
}

func (l *Lobby) onRoundEnd(info table.RoundEndInfo) {
	rec := info.Record
	l.statsMu.Lock()
	if rec.Outcome == ledger.OutcomeHalted {
		l.stats.Halted++
	} else {
		l.stats.Rounds++
	}
	if rec.MatchOver {
		l.stats.Matches++
	}
	l.statsMu.Unlock()

	if rec.MatchOver {
		log.Printf("[Lobby] Match finished on table %s (NS=%d EW=%d)", info.TableID, rec.MatchTotals[0], rec.MatchTotals[1])
	}
}

// Stats returns the round counters.
func (l *Lobby) Stats() Stats {
	l.statsMu.Lock()
	defer l.statsMu.Unlock()
	return l.stats
}

// GetTable returns a table by ID
func (l *Lobby) GetTable(tableID string) *table.Table {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tables[tableID]
}

// ListTables returns the lobby listing, ordered by id.
func (l *Lobby) ListTables() []table.Info {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]table.Info, 0, len(l.tables))
	for _, id := range l.sortedIDsLocked() {
		out = append(out, l.tables[id].Info())
	}
	return out
}

func (l *Lobby) sortedIDsLocked() []string {
	ids := make([]string, 0, len(l.tables))
	for id := range l.tables {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ReapIdle stops and forgets tables nobody has used for ttl.
func (l *Lobby) ReapIdle(ttl time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	reaped := 0
	for id, t := range l.tables {
		if !t.IsIdleFor(ttl) {
			continue
		}
		t.Stop()
		delete(l.tables, id)
		reaped++
		log.Printf("[Lobby] Reaped idle table %s", id)
	}
	return reaped
}

// Close stops every table.
func (l *Lobby) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, t := range l.tables {
		t.Stop()
		delete(l.tables, id)
	}
}
