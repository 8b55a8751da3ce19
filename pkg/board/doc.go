// Package board holds the in-memory PCB model the router works against:
// pads, tracks, zones, nets and design rules, together with the queries
// used to resolve what a point touches, the undo contract and per-net
// connectivity.
//
// Coordinates are integer board units. Boards loaded from KiCad files use
// nanometres.
package board
