package component

// RigidBody binds an entity to its simulated body.
type RigidBody struct {
	Body   Body
	Radius float64
	Mass   float64
}

var RigidBodyComponent = NewComponent[RigidBody]()
