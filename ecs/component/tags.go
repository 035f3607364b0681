package component

// PlayerRigTag marks the head rig agents turn toward.
type PlayerRigTag struct{}

var PlayerRigTagComponent = NewComponent[PlayerRigTag]()

// AimMarkerTag marks a point agents may throw at.
type AimMarkerTag struct{}

var AimMarkerTagComponent = NewComponent[AimMarkerTag]()

// HandAnchorTag marks an agent's hand bone.
type HandAnchorTag struct{}

var HandAnchorTagComponent = NewComponent[HandAnchorTag]()
