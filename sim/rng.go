package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// NormalSource supplies independent standard-normal variates.
// *rand.Rand satisfies it.
type NormalSource interface {
	NormFloat64() float64
}

// SimulationKey is the master seed of a run or batch. The same key and
// config always reproduce the same paths bit for bit.
type SimulationKey int64

// NewSimulationKey wraps a seed.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// SubsystemPath names the source of a single `run`. It maps to the master
// seed itself, so `run --seed N` needs no derivation to reproduce.
const SubsystemPath = "path"

// SubsystemRun names the source of batch run i.
func SubsystemRun(i int) string {
	return fmt.Sprintf("run_%d", i)
}

// DeriveSeed maps (key, subsystem) to the seed of that subsystem's source:
// the key itself for SubsystemPath, key XOR fnv1a64(subsystem) otherwise.
// It is pure, so callers on any goroutine derive identical seeds.
func DeriveSeed(key SimulationKey, subsystem string) int64 {
	if subsystem == SubsystemPath {
		return int64(key)
	}
	return int64(key) ^ fnv1a64(subsystem)
}

// NewSubsystemRNG builds a fresh, uncached source for one subsystem.
func NewSubsystemRNG(key SimulationKey, subsystem string) *rand.Rand {
	return rand.New(rand.NewSource(DeriveSeed(key, subsystem)))
}

// NewRunRNG returns the source used by a single seeded run.
func NewRunRNG(seed int64) *rand.Rand {
	return NewSubsystemRNG(NewSimulationKey(seed), SubsystemPath)
}

// PartitionedRNG caches one source per subsystem name under a single key.
// Not safe for concurrent use; the returned sources may each move to their
// own goroutine. Use NewSubsystemRNG when the set of subsystems is large.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates an empty cache for key.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{key: key, subsystems: make(map[string]*rand.Rand)}
}

// ForSubsystem returns the cached source for name, creating it on first use.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	rng, ok := p.subsystems[name]
	if !ok {
		rng = NewSubsystemRNG(p.key, name)
		p.subsystems[name] = rng
	}
	return rng
}

// Key returns the master key.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
