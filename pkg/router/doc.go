// Package router implements interactive track routing: a session follows
// the cursor segment by segment, snapping to 0/45/90 degrees, pushing the
// free end away from foreign copper and consulting the DRC gate, then
// commits the segments to the board as one undoable command.
//
// A Router is driven by explicit calls from the interaction layer:
//
//	r.Begin(p)        // click on empty space, a pad or a track
//	r.Move(cursor)    // pointer motion, no DRC refusal
//	r.Extend(cursor)  // click: fix the tail, start a new one
//	r.End(p)          // double click: resolve the end and commit
//	r.Abort()         // escape: restore everything
//
// Routers are not safe for concurrent use.
package router
