package table

import (
	"errors"
	"fmt"
	"log"
	"time"

	"belote-lite/belote"
	"belote-lite/belote/npc"
)

// --- NPC support ---

// NPCManager returns the table's NPC manager (may be nil).
func (t *Table) NPCManager() *npc.Manager {
	return t.npcManager
}

func (t *Table) handleAddBot(personaID string) error {
	if t.npcManager == nil {
		return fmt.Errorf("NPC manager not available")
	}
	var (
		inst *npc.NPCInstance
		out  []belote.Outbound
		err  error
	)
	if personaID == "" {
		inst, out, err = t.npcManager.SpawnRandom(t.session)
	} else {
		persona := t.npcManager.Registry().Get(personaID)
		if persona == nil {
			return fmt.Errorf("unknown persona %q", personaID)
		}
		inst, out, err = t.npcManager.SpawnNPC(t.session, persona)
	}
	if err != nil {
		return err
	}
	log.Printf("[Table %s] NPC %s seated at %s", t.ID, inst.Persona.Name, inst.Seat)
	t.emitLocked(out)
	return nil
}

func (t *Table) handleRemoveBot(seat belote.Seat) error {
	if t.npcManager == nil || !t.npcManager.IsNPC(seat) {
		return fmt.Errorf("no NPC at %s", seat)
	}
	delete(t.npcScheduled, seat)
	t.emitLocked(t.npcManager.DespawnNPC(t.session, seat))
	return nil
}

// humanSeatedLocked reports whether any seat is held by a real connection.
func (t *Table) humanSeatedLocked() bool {
	for _, s := range belote.Seats {
		if t.isHuman(t.session.ConnAt(s)) {
			return true
		}
	}
	return false
}

// npcToActLocked picks the NPC seat that owes the next action, if any.
// NPC dealers only deal while a human is seated.
func (t *Table) npcToActLocked() (belote.Seat, bool) {
	var seat belote.Seat
	switch t.session.Phase() {
	case belote.PhaseWaiting:
		if t.session.Seated() < belote.SeatCount || !t.humanSeatedLocked() {
			return belote.NoSeat, false
		}
		seat = t.session.Dealer()
	default:
		seat = t.session.Turn()
	}
	if !seat.Valid() || !t.npcManager.IsNPC(seat) {
		return belote.NoSeat, false
	}
	return seat, true
}

// scheduleNPCLocked runs the think delay in a goroutine and injects the turn
// back into the actor queue, so the brain always sees current state.
func (t *Table) scheduleNPCLocked() {
	if t.npcManager == nil || t.closed {
		return
	}
	seat, ok := t.npcToActLocked()
	if !ok || t.npcScheduled[seat] {
		return
	}
	t.npcScheduled[seat] = true
	delay := t.npcManager.GetThinkDelay(seat)

	go func() {
		// Simulate thinking
		time.Sleep(delay)
		err := t.SubmitEvent(Event{Type: EventNPC, Seat: seat})
		if err != nil && !errors.Is(err, ErrTableClosed) {
			log.Printf("[Table %s] NPC turn at %s failed: %v", t.ID, seat, err)
		}
	}()
}

func (t *Table) handleNPCTurn(seat belote.Seat) error {
	delete(t.npcScheduled, seat)
	if t.npcManager == nil {
		return nil
	}
	current, ok := t.npcToActLocked()
	if !ok || current != seat {
		// stale
		t.scheduleNPCLocked()
		return nil
	}

	if t.session.Phase() == belote.PhaseWaiting {
		out, err := t.session.RequestDeal(seat)
		if err != nil {
			return err
		}
		t.emitLocked(out)
		return nil
	}

	var out []belote.Outbound
	if t.session.Phase() == belote.PhasePlaying {
		// 有牌型就直接宣布
		if declared, err := t.session.DeclareSequence(seat); err == nil {
			out = append(out, declared...)
		}
	}

	decision, ok := t.npcManager.OnTurn(t.session, seat)
	if !ok {
		t.emitLocked(out)
		return nil
	}
	played, err := npc.Apply(t.session, seat, decision)
	out = append(out, played...)
	t.emitLocked(out)
	return err
}
