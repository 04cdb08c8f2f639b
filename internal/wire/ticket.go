package wire

import (
	"github.com/bifshteksex/crdt-engine/internal/actor"
	"github.com/bifshteksex/crdt-engine/internal/tick"
)

// TicketWire is the JSON shape of a tick.Ticket (§6).
type TicketWire struct {
	Lamport   uint64 `json:"lamport"`
	Delimiter uint32 `json:"delimiter"`
	ActorID   string `json:"actorId"`
}

// FromTicket converts a core ticket to its wire shape.
func FromTicket(t tick.Ticket) TicketWire {
	return TicketWire{Lamport: t.Lamport(), Delimiter: t.Delimiter(), ActorID: t.ActorID().String()}
}

// ToTicket converts a wire ticket back to the core type.
func (w TicketWire) ToTicket() tick.Ticket {
	return tick.New(w.Lamport, w.Delimiter, actor.ID(w.ActorID))
}
