package services

import (
	"context"
	"grid-dispatch-service/internal/domain"
	"grid-dispatch-service/internal/ports"
	"log"
)

// Tick advances every courier one cell along its active path.
//
// A courier whose path runs out on this tick has completed its route: its
// order list is cleared and the recorder marks the carried orders DELIVERED.
// Couriers with an empty path are left untouched. Steps are not checked
// against the grid here; the path came from the pathfinder.
func Tick(ctx context.Context, couriers []*domain.Courier, recorder ports.DeliveryRecorder) {
	for _, c := range couriers {
		if c == nil {
			continue
		}

		_, arrived := c.Advance()
		if !arrived {
			continue
		}

		carried := c.Load()
		c.Clear()

		if recorder == nil {
			continue
		}
		ids, err := recorder.MarkDeliveredForCourier(ctx, c.ID)
		if err != nil {
			log.Printf("tick: courier=%s mark delivered failed carried=%d err=%v", c.ID, carried, err)
			continue
		}
		log.Printf("tick: courier=%s arrived at %s delivered=%v", c.ID, c.Position, ids)
	}
}
