package review

import (
	"hash/fnv"
	"sync"

	"github.com/google/uuid"
)

// mutexStripes is the number of locks in a keyedMutex. Collisions across
// distinct pairs only cost unnecessary serialization, never correctness.
const mutexStripes = 128

// keyedMutex serializes operations per learner/item pair using lock
// striping. A pair always hashes to the same stripe, so two answers for the
// same pair can never interleave.
type keyedMutex struct {
	stripes [mutexStripes]sync.Mutex
}

func (k *keyedMutex) lock(learnerID, itemID uuid.UUID) func() {
	h := fnv.New32a()
	h.Write(learnerID[:])
	h.Write(itemID[:])
	m := &k.stripes[h.Sum32()%mutexStripes]
	m.Lock()
	return m.Unlock
}
