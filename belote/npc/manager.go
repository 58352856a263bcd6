package npc

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"belote-lite/belote"
)

// NPCInstance represents an active NPC seated at a table.
type NPCInstance struct {
	ConnID     string
	Seat       belote.Seat
	Persona    *NPCPersona
	Brain      BrainDecider
	ThinkDelay time.Duration
}

// Manager manages NPC lifecycle and decision-making at one table.
type Manager struct {
	registry  *PersonaRegistry
	instances map[belote.Seat]*NPCInstance
	mu        sync.RWMutex
	rng       *rand.Rand
	nextID    uint64
}

func NewManager(registry *PersonaRegistry, seed int64) *Manager {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Manager{
		registry:  registry,
		instances: make(map[belote.Seat]*NPCInstance),
		rng:       rand.New(rand.NewSource(seed)),
	}
}

func (m *Manager) Registry() *PersonaRegistry {
	return m.registry
}

// SpawnNPC joins the session as a new connection and tracks it if it got a seat.
func (m *Manager) SpawnNPC(s *belote.Session, persona *NPCPersona) (*NPCInstance, []belote.Outbound, error) {
	m.mu.Lock()
	m.nextID++
	connID := fmt.Sprintf("npc-%d", m.nextID)
	seed := m.rng.Int63()
	baseMs := 600 + int(persona.Brain.Randomness*1200)
	thinkDelay := time.Duration(baseMs+m.rng.Intn(600)) * time.Millisecond
	m.mu.Unlock()

	out, err := s.Join(connID)
	if err != nil {
		return nil, nil, fmt.Errorf("spawn NPC %s: %w", persona.Name, err)
	}
	seat, _ := s.SeatOf(connID)
	if !seat.Valid() {
		s.Leave(connID)
		return nil, nil, fmt.Errorf("spawn NPC %s: table full", persona.Name)
	}

	inst := &NPCInstance{
		ConnID:     connID,
		Seat:       seat,
		Persona:    persona,
		Brain:      NewRuleBrain(persona, seed),
		ThinkDelay: thinkDelay,
	}
	m.mu.Lock()
	m.instances[seat] = inst
	m.mu.Unlock()

	log.Printf("[NPC] Spawned %s (%s) at %s", persona.Name, connID, seat)
	return inst, out, nil
}

// SpawnRandom seats a persona picked at random.
func (m *Manager) SpawnRandom(s *belote.Session) (*NPCInstance, []belote.Outbound, error) {
	all := m.registry.All()
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("no personas registered")
	}
	m.mu.Lock()
	p := all[m.rng.Intn(len(all))]
	m.mu.Unlock()
	return m.SpawnNPC(s, p)
}

// OnTurn asks the NPC at seat for its next action.
func (m *Manager) OnTurn(s *belote.Session, seat belote.Seat) (Decision, bool) {
	m.mu.RLock()
	inst := m.instances[seat]
	m.mu.RUnlock()
	if inst == nil {
		return Decision{}, false
	}

	decision := inst.Brain.Decide(ViewFor(s, seat))
	log.Printf("[NPC] %s at %s decides: bid=%s card=%s", inst.Persona.Name, seat, decision.Bid, decision.Card)
	return decision, true
}

// Apply performs a decision against the session.
func Apply(s *belote.Session, seat belote.Seat, d Decision) ([]belote.Outbound, error) {
	switch d.Kind {
	case DecideBid:
		return s.Bid(seat, d.Bid)
	case DecidePlay:
		return s.PlayCard(seat, d.Card)
	}
	return nil, fmt.Errorf("unknown decision kind %d", d.Kind)
}

func (m *Manager) GetInstance(seat belote.Seat) *NPCInstance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.instances[seat]
}

func (m *Manager) IsNPC(seat belote.Seat) bool {
	return m.GetInstance(seat) != nil
}

// DespawnNPC removes the NPC at seat from the session and from tracking.
func (m *Manager) DespawnNPC(s *belote.Session, seat belote.Seat) []belote.Outbound {
	m.mu.Lock()
	inst := m.instances[seat]
	delete(m.instances, seat)
	m.mu.Unlock()
	if inst == nil {
		return nil
	}
	out, _ := s.Leave(inst.ConnID)
	log.Printf("[NPC] Despawned %s from %s", inst.Persona.Name, seat)
	return out
}

// GetThinkDelay returns the simulated thinking delay for the NPC at seat.
func (m *Manager) GetThinkDelay(seat belote.Seat) time.Duration {
	if inst := m.GetInstance(seat); inst != nil {
		return inst.ThinkDelay
	}
	return time.Second
}
