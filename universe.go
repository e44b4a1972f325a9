package voxelverse

// Universe is the top-level simulation: the space tree root plus the
// ambient scheduler (logger, clock, asset server, and any installed
// modules). It is the one entry point a front-end drives, mirroring the
// teacher's App but scoped to a single `Tick` instead of a render loop —
// §4.5 is explicit that pacing and I/O are a caller concern, not the
// core's.
type Universe struct {
	Root      *SpaceTree
	Scheduler *Scheduler
	Assets    *AssetServer

	// CollisionHandler is invoked for every colliding unordered pair during
	// phase 5. Response math is out of core scope (§4.2); a front-end or
	// test substitutes its own handler, defaulting to a no-op.
	CollisionHandler CollisionHandler
}

// NewUniverse builds an empty universe — a single matter leaf at the origin
// — installs the ambient modules (logging, clock) plus any caller-supplied
// modules, registers the default block asset a controlled agent's
// drop_block action spawns. CollisionHandler is left nil, which Tick
// treats as a no-op handler.
func NewUniverse(modules ...Module) *Universe {
	u := &Universe{
		Root:      NewSpaceTree(),
		Scheduler: NewScheduler(),
		Assets:    NewAssetServer(),
	}
	u.Scheduler.AddResource(u.Assets)
	u.Assets.RegisterDefaultBlock(newSolidBlockModel())

	for _, m := range append([]Module{LoggingModule{Prefix: "voxelverse"}, ClockModule{}}, modules...) {
		u.Scheduler.Install(m)
	}
	return u
}

// Insert adds a freshly created entity to the universe via the external
// insertion API (§4.4), InsertEntity, growing the tree when the entity lies
// outside the root matter cell.
func (u *Universe) Insert(e Entity) {
	u.Root = InsertEntity(u.Root, e)
}

// Tick runs the five fixed phases of one simulation step, in the order
// §4.5 requires: collect inputs, run actions, integrate motion, refresh the
// spatial index, then apply collisions. Each phase fully completes before
// the next starts; there is no interleaving and no suspension point within
// a tick.
func (u *Universe) Tick() {
	u.Scheduler.RunStage(CollectInputs)
	u.Scheduler.RunStage(RunActions)
	u.Root.RunActions(u.Assets)

	u.Scheduler.RunStage(Integrate)
	u.Root.IntegrateAll()

	u.Scheduler.RunStage(RefreshIndex)
	u.Root = RefreshRoot(u.Root)

	u.Scheduler.RunStage(ApplyCollision)
	handler := u.CollisionHandler
	if handler == nil {
		handler = func(a, b *Entity) {}
	}
	u.Root.ApplyCollisions(handler)
}

// NodeCount reports the total number of space-tree and matter-tree nodes
// currently live, for the introspection API and the invariant tests in §8.
func (u *Universe) NodeCount() int {
	return u.Root.NodeCount()
}

// EntityCount reports the total number of entities currently indexed.
func (u *Universe) EntityCount() int {
	return u.Root.EntityCount()
}

// Cells enumerates every matter cell in the universe as a CellSnapshot, for
// a front-end's rendering pass or a test's structural assertions.
func (u *Universe) Cells() []CellSnapshot {
	return u.Root.Cells()
}

// Logger returns the installed Logger resource.
func (u *Universe) Logger() Logger {
	return u.Scheduler.FindLogger()
}
