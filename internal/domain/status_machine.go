package domain

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/looplab/fsm"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:          {StatusEdited, StatusApproved, StatusCancelled},
	StatusEdited:           {StatusApproved, StatusCancelled},
	StatusApproved:         {StatusConfirmed, StatusInProduction, StatusCancelled},
	StatusConfirmed:        {StatusInProduction, StatusCancelled},
	StatusInProduction:     {StatusReadyForDelivery, StatusCancelled},
	StatusReadyForDelivery: {StatusDelivered},
}

// orderEvents names every event after its destination status so that
// AvailableTransitions reads directly as the set of reachable statuses.
var orderEvents = func() fsm.Events {
	var events fsm.Events
	for src, dsts := range orderTransitions {
		for _, dst := range dsts {
			events = append(events, fsm.EventDesc{
				Name: string(dst),
				Src:  []string{string(src)},
				Dst:  string(dst),
			})
		}
	}
	return events
}()

func newOrderMachine(current OrderStatus) *fsm.FSM {
	return fsm.NewFSM(string(current), orderEvents, fsm.Callbacks{})
}

// AvailableStatuses lists the statuses reachable from status in lifecycle
// order. Terminal and unknown statuses have none.
func AvailableStatuses(status OrderStatus) []OrderStatus {
	if !status.Valid() {
		return []OrderStatus{}
	}
	names := newOrderMachine(status).AvailableTransitions()
	out := make([]OrderStatus, 0, len(names))
	for _, n := range names {
		out = append(out, OrderStatus(n))
	}
	sort.Slice(out, func(i, j int) bool {
		return lifecycleRank(out[i]) < lifecycleRank(out[j])
	})
	return out
}

func CanTransition(from, to OrderStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	return newOrderMachine(from).Can(string(to))
}

// CheckTransition runs the transition on a scratch machine and reports why it
// was refused. The real transition is always applied by the sales service.
func CheckTransition(ctx context.Context, from, to OrderStatus) error {
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	err := newOrderMachine(from).Event(ctx, string(to))
	var noTransition fsm.NoTransitionError
	if err == nil || errors.As(err, &noTransition) {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

func lifecycleRank(s OrderStatus) int {
	for i, known := range orderLifecycle {
		if known == s {
			return i
		}
	}
	return len(orderLifecycle)
}
