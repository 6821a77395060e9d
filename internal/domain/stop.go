package domain

// Stop is a single visit target in an optimization run.
//
// Index is the stop's position in the caller-supplied input list and is the
// unit used inside candidate orderings. The first stop (index 0) is the
// fixed origin of every route.
//
// SequenceTag expresses required relative ordering: a stop with a strictly
// lower tag must be visited before any stop with a strictly higher tag.
// Stops sharing a tag may be visited in either order. Tags are always
// supplied explicitly by the caller; the engine never invents a default.
type Stop struct {
	Index       int
	Name        string
	Coord       Coordinates
	SequenceTag int
}
