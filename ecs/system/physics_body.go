package system

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/foodfight/ecs/component"
)

var errForeignBody = errors.New("physics: body not owned by this space")

// cpBody adapts a chipmunk body to component.Body. The simulation runs on
// the ground plane: world x and z map to cp x and y, height is carried
// along untouched and angular velocity is yaw only.
type cpBody struct {
	body       *cp.Body
	shape      *cp.Shape
	height     float64
	kinematic  bool
	maxAngular float64
}

func newCPBody(radius, mass float64, pos mgl64.Vec3, kinematic bool) *cpBody {
	if mass <= 0 {
		mass = 1
	}
	b := &cpBody{maxAngular: math.Inf(1)}

	if radius > 0 {
		b.body = cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{}))
		b.shape = cp.NewCircle(b.body, radius, cp.Vector{})
		b.shape.SetMass(mass)
		b.shape.SetFriction(0.6)
		b.shape.SetElasticity(0.3)
	} else {
		b.body = cp.NewKinematicBody()
		kinematic = true
	}

	b.body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(body, cp.Vector{}, damping, dt)
		if w := body.AngularVelocity(); math.Abs(w) > b.maxAngular {
			body.SetAngularVelocity(math.Copysign(b.maxAngular, w))
		}
	})
	b.SetPosition(pos)
	b.SetKinematic(kinematic)
	return b
}

func toCP(v mgl64.Vec3) cp.Vector {
	return cp.Vector{X: v.X(), Y: v.Z()}
}

func (b *cpBody) Position() mgl64.Vec3 {
	p := b.body.Position()
	return mgl64.Vec3{p.X, b.height, p.Y}
}

func (b *cpBody) SetPosition(p mgl64.Vec3) {
	b.height = p.Y()
	b.body.SetPosition(toCP(p))
}

func (b *cpBody) Kinematic() bool {
	return b.kinematic
}

func (b *cpBody) SetKinematic(kinematic bool) {
	if b.shape == nil {
		b.kinematic = true
		return
	}
	b.kinematic = kinematic

	want := cp.BODY_DYNAMIC
	if kinematic {
		want = cp.BODY_KINEMATIC
	}
	if b.body.GetType() == want {
		return
	}
	b.body.SetType(want)
	if kinematic {
		b.body.SetVelocityVector(cp.Vector{})
		b.body.SetAngularVelocity(0)
	}
}

func (b *cpBody) Velocity() mgl64.Vec3 {
	v := b.body.Velocity()
	return mgl64.Vec3{v.X, 0, v.Y}
}

func (b *cpBody) SetVelocity(v mgl64.Vec3) {
	b.body.SetVelocityVector(toCP(v))
}

// AngularVelocity is the spin about world +Y. cp angles run the other
// way, see Yaw.
func (b *cpBody) AngularVelocity() mgl64.Vec3 {
	return mgl64.Vec3{0, -b.body.AngularVelocity(), 0}
}

func (b *cpBody) SetAngularVelocity(v mgl64.Vec3) {
	b.body.SetAngularVelocity(-v.Y())
}

func (b *cpBody) MaxAngularVelocity() float64 {
	return b.maxAngular
}

func (b *cpBody) SetMaxAngularVelocity(max float64) {
	if max < 0 {
		max = 0
	}
	b.maxAngular = max
}

// Yaw is the body's heading as a rotation about the world up axis.
func (b *cpBody) Yaw() mgl64.Quat {
	return mgl64.QuatRotate(-b.body.Angle(), mgl64.Vec3{0, 1, 0})
}

// cpJoint pins a body to a hand anchor with a pivot for position and a gear
// for heading.
type cpJoint struct {
	space     *cp.Space
	anchor    *cpBody
	pivot     *cp.Constraint
	gear      *cp.Constraint
	connected *cpBody
}

func (j *cpJoint) Connect(b component.Body) error {
	target, ok := b.(*cpBody)
	if !ok || target == nil {
		return errForeignBody
	}
	j.Disconnect()

	j.pivot = cp.NewPivotJoint(j.anchor.body, target.body, target.body.Position())
	j.gear = cp.NewGearJoint(j.anchor.body, target.body, target.body.Angle()-j.anchor.body.Angle(), 1)
	j.space.AddConstraint(j.pivot)
	j.space.AddConstraint(j.gear)
	j.connected = target
	return nil
}

func (j *cpJoint) Disconnect() {
	if j.pivot != nil {
		j.space.RemoveConstraint(j.pivot)
		j.pivot = nil
	}
	if j.gear != nil {
		j.space.RemoveConstraint(j.gear)
		j.gear = nil
	}
	j.connected = nil
}

func (j *cpJoint) Connected() component.Body {
	if j.connected == nil {
		return nil
	}
	return j.connected
}
