// Package geometry provides the integer rectangle type used for detected
// text regions and mask placement.
//
// Boxes are immutable values in page pixel coordinates with inclusive
// ordering invariants (X1 <= X2, Y1 <= Y2). Every operation returns a new
// box; none mutate the receiver. Overlap checks treat shared edges and
// corners as overlapping, which is what the merge step relies on to collapse
// adjacent detections.
package geometry
