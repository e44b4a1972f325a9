package voxelverse

// outsider is an entity in transit through the space tree: it has left its
// originating matter cell and is being routed sideways (to a sibling matter
// tree) or upward (because no sibling exists yet at this scale) until it
// can be redescended into its new home.
type outsider struct {
	Entity Entity

	// Direction is the {-1,0,+1}^3 vector of axes still unresolved. An axis
	// reaches zero once some ancestor's sibling move has absorbed it; the
	// outsider is ready to redescend once every axis is zero.
	Direction Vec3

	// Path is the stack of quadrants to descend through once Direction
	// resolves, one entry per level the outsider had to climb past without
	// finding a usable sibling. Popped from the end (LIFO) on the way back
	// down, mirroring the order they were pushed on the way up.
	Path []Quadrant
}

// computeOutsiderDirection classifies a center-relative position against a
// reference half-size using the same base-3 rule as FineDirection, and
// returns it directly as a {-1,0,+1}^3 vector — this is outsider_direction_vec
// from §4.1, applied at the matter-tree/space-tree boundary.
func computeOutsiderDirection(pos Vec3, halfSize int64) Vec3 {
	return FineDirectionFromOffset(pos, halfSize).OutsiderDirectionVec()
}

// consumeAxes zeroes the axes of o where it agrees in sign with grow,
// leaving any conflicting or still-unclaimed axis untouched. Used both to
// resolve an outsider's Direction against one root-growth step and to
// decide whether it must loop into a further step.
func consumeAxes(o, grow Vec3) Vec3 {
	r := o
	if grow.X != 0 && o.X == grow.X {
		r.X = 0
	}
	if grow.Y != 0 && o.Y == grow.Y {
		r.Y = 0
	}
	if grow.Z != 0 && o.Z == grow.Z {
		r.Z = 0
	}
	return r
}

// unionDirection picks, per axis, the first nonzero sign found across the
// batch. Two outsiders disagreeing in sign on the same axis cannot both be
// served by a single growth step; the loser keeps its axis unresolved and
// waits for a later step to grow the other way.
func unionDirection(outsiders []outsider) Vec3 {
	var d Vec3
	for _, o := range outsiders {
		if d.X == 0 && o.Direction.X != 0 {
			d.X = o.Direction.X
		}
		if d.Y == 0 && o.Direction.Y != 0 {
			d.Y = o.Direction.Y
		}
		if d.Z == 0 && o.Direction.Z != 0 {
			d.Z = o.Direction.Z
		}
	}
	return d
}
