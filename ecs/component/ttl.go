package component

import "github.com/milk9111/foodfight/common"

// TTL destroys its entity once Elapsed exceeds Lifetime seconds. Free
// objects carry one; picking an object up removes it.
type TTL struct {
	Lifetime float64
	Elapsed  common.Timer
}

func (t *TTL) Expired() bool {
	return t.Elapsed.Exceeded(t.Lifetime)
}

var TTLComponent = NewComponent[TTL]()
