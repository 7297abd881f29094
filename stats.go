// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package waitq

import "code.hybscloud.com/atomix"

// Stats is a point-in-time snapshot of a queue's operation counters.
//
// Counters are atomic. Some are updated under the queue's lock and some just
// after it is released, and all are read without it, so a snapshot taken
// under load may mix values from adjacent operations.
type Stats struct {
	Pushed      uint64 // successful Push, Enqueue and Emplace calls
	Rejected    uint64 // pushes refused because the queue was closed
	Overwritten uint64 // pushes that displaced the oldest element of a full ring
	Popped      uint64 // elements removed by any pop
	Misses      uint64 // non-blocking pops that found the queue empty
	Waits       uint64 // times a consumer parked waiting for data
	Waiting     int64  // consumers parked right now
}

type counters struct {
	pushed      atomix.Uint64
	rejected    atomix.Uint64
	overwritten atomix.Uint64
	popped      atomix.Uint64
	misses      atomix.Uint64
	waits       atomix.Uint64
	waiting     atomix.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Pushed:      c.pushed.LoadAcquire(),
		Rejected:    c.rejected.LoadAcquire(),
		Overwritten: c.overwritten.LoadAcquire(),
		Popped:      c.popped.LoadAcquire(),
		Misses:      c.misses.LoadAcquire(),
		Waits:       c.waits.LoadAcquire(),
		Waiting:     c.waiting.Load(),
	}
}
