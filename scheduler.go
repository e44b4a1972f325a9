package voxelverse

import (
	"fmt"
	"reflect"
)

// Stage names one of the tick's five fixed phases (§5). Unlike the
// teacher's Stage, ours has no UpdateType split — the whole tick runs at a
// fixed step, there is no render/dynamic distinction in a headless
// substrate.
type Stage struct {
	Name string
}

var (
	CollectInputs  = Stage{Name: "CollectInputs"}
	RunActions     = Stage{Name: "RunActions"}
	Integrate      = Stage{Name: "Integrate"}
	RefreshIndex   = Stage{Name: "RefreshIndex"}
	ApplyCollision = Stage{Name: "ApplyCollision"}
)

// TickStages is the fixed phase order of one tick, in the sequence §5
// requires.
var TickStages = []Stage{CollectInputs, RunActions, Integrate, RefreshIndex, ApplyCollision}

// System is any function whose parameters are pointers to registered
// resources (or *Commands); the scheduler resolves them by reflection at
// call time. There is no ECS query machinery here — the space tree itself
// is the only store of entities.
type System any

// Module installs resources and systems into a Scheduler.
type Module interface {
	Install(s *Scheduler, cmd *Commands)
}

// Scheduler owns the ambient resources (logger, clock, asset server, ...)
// and the systems registered against each tick stage.
type Scheduler struct {
	resources map[reflect.Type]any
	systems   map[string][]System
}

// NewScheduler returns a scheduler with every tick stage initialized empty.
func NewScheduler() *Scheduler {
	s := &Scheduler{
		resources: make(map[reflect.Type]any),
		systems:   make(map[string][]System),
	}
	for _, stage := range TickStages {
		s.systems[stage.Name] = nil
	}
	return s
}

// AddResource registers a pointer-typed resource, panicking on a duplicate
// type.
func (s *Scheduler) AddResource(resource any) *Scheduler {
	t := reflect.TypeOf(resource)
	if t.Kind() != reflect.Ptr {
		panic(fmt.Sprintf("voxelverse: resource %T must be a pointer", resource))
	}
	elem := t.Elem()
	if _, ok := s.resources[elem]; ok {
		panic(fmt.Sprintf("voxelverse: %s is already registered as a resource", elem))
	}
	s.resources[elem] = resource
	return s
}

// AddSystem registers sys to run during stage, in registration order.
func (s *Scheduler) AddSystem(stage Stage, sys System) *Scheduler {
	if _, ok := s.systems[stage.Name]; !ok {
		panic(fmt.Sprintf("voxelverse: unknown stage %q", stage.Name))
	}
	s.systems[stage.Name] = append(s.systems[stage.Name], sys)
	return s
}

// Install runs mod.Install against this scheduler.
func (s *Scheduler) Install(mod Module) *Scheduler {
	mod.Install(s, &Commands{scheduler: s})
	return s
}

// RunStage calls every system registered for stage, in order.
func (s *Scheduler) RunStage(stage Stage) {
	for _, sys := range s.systems[stage.Name] {
		s.callSystem(sys)
	}
}

var typeOfCommands = reflect.TypeOf(Commands{})

func (s *Scheduler) callSystem(sys System) {
	val := reflect.ValueOf(sys)
	typ := val.Type()

	args := make([]reflect.Value, typ.NumIn())
	for i := 0; i < typ.NumIn(); i++ {
		argType := typ.In(i)
		elem := argType.Elem()

		if elem == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{scheduler: s})
			continue
		}
		resource, ok := s.resources[elem]
		if !ok {
			panic(fmt.Sprintf("voxelverse: system %s requires unregistered resource %s", typ, elem))
		}
		args[i] = reflect.ValueOf(resource)
	}
	val.Call(args)
}

// Resource fetches a previously registered resource of type *T, panicking
// if none was registered — used by code that isn't itself a System (and so
// can't have the value injected as a parameter).
func Resource[T any](s *Scheduler) *T {
	var zero *T
	t := reflect.TypeOf(zero).Elem()
	r, ok := s.resources[t]
	if !ok {
		panic(fmt.Sprintf("voxelverse: resource %s not registered", t))
	}
	return r.(*T)
}

// Commands is the handle systems use to queue work back onto the
// scheduler's owner. Entity spawning goes through Universe directly (via
// RunActions' return value), not through Commands, since the space tree,
// not an ECS archetype store, owns entity lifetime.
type Commands struct {
	scheduler *Scheduler
}

// AddResource registers a resource via the owning scheduler.
func (c *Commands) AddResource(resource any) *Commands {
	c.scheduler.AddResource(resource)
	return c
}
