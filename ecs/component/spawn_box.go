package component

import "github.com/milk9111/foodfight/common"

// SpawnBox offers a rotating candidate object. Grabbing it hands out a
// fresh instance of Current.
type SpawnBox struct {
	Current       string
	UseRandomPool bool
	RandomPool    []string
	WeaponList    []string
	ChangeDelay   float64
	ChangeElapsed common.Timer
}

// Pool returns the table the next candidate is drawn from.
func (s *SpawnBox) Pool() []string {
	if s == nil {
		return nil
	}
	if s.UseRandomPool {
		return s.RandomPool
	}
	return s.WeaponList
}

var SpawnBoxComponent = NewComponent[SpawnBox]()
