// Package geom holds the integer geometry used by the interactive router:
// board points, the 0/45/90 degree snapping law, two-segment break points,
// 45 degree corner chamfers and point/segment distances.
//
// Every function in this package is pure. Given the same inputs it returns
// the same result, independent of any routing history.
package geom
