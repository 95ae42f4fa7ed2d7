package transition

import (
	"fmt"

	"github.com/Carmen-Shannon/roomview/common"
	"github.com/Carmen-Shannon/roomview/engine/game_object"
	"github.com/Carmen-Shannon/roomview/engine/wall"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

type rotationMode int

const (
	moveOnly rotationMode = iota
	// lerpEuler interpolates each Euler axis along its shortest arc.
	lerpEuler
	// slerp interpolates along the shortest quaternion arc.
	slerp
)

// track is one entity's fixed start and end pose for the running transition.
type track struct {
	name   string
	handle game_object.Transform
	start  common.Pose
	end    common.Pose
	mode   rotationMode
	// lost is set the first time the handle is found missing or panics; the track is skipped afterwards.
	lost bool
	// fault holds a panic raised while snapshotting the start pose.
	fault any
}

func (tr *track) positionAt(t float32, final bool) mgl32.Vec3 {
	if final {
		return tr.end.Position
	}
	return common.Lerp(tr.start.Position, tr.end.Position, t)
}

func (tr *track) rotationAt(t float32, final bool) mgl32.Vec3 {
	switch {
	case final:
		return tr.end.Rotation
	case tr.mode == slerp:
		return common.SlerpEuler(tr.start.Rotation, tr.end.Rotation, t)
	default:
		return common.LerpEuler(tr.start.Rotation, tr.end.Rotation, t)
	}
}

// group is a wall's track followed by the tracks of its bound objects.
type group struct {
	wall   wall.WallID
	tracks []*track
}

type plan struct {
	groups []*group
	camera *track
}

// newTrack snapshots the handle's current pose as the start. Missing or panicking handles are
// left for applyTrack to report and skip.
func newTrack(name string, handle game_object.Transform, mode rotationMode) *track {
	tr := &track{name: name, handle: handle, mode: mode}
	tr.fault = guard(func() {
		if !game_object.Alive(handle) {
			return
		}
		if named, ok := handle.(interface{ Name() string }); ok && named.Name() != "" {
			tr.name = named.Name()
		}
		tr.start = common.Pose{Position: handle.Position(), Rotation: handle.Rotation()}
		tr.end = tr.start
	})
	return tr
}

// buildPlan snapshots start and end poses for a transition. Staying walls get no tracks.
// Caller must hold the mutex.
func (e *engineImpl) buildPlan(from, to int) *plan {
	hidden := e.registry.HiddenPosition()
	p := &plan{}

	for _, id := range e.topo.ExitingWalls(from, to) {
		w, _ := e.registry.Wall(id)
		g := &group{wall: id}

		wt := newTrack(id.String()+" wall", w.Handle, moveOnly)
		wt.end.Position = hidden
		g.tracks = append(g.tracks, wt)

		for i, obj := range e.registry.ObjectsOf(id) {
			ot := newTrack(fmt.Sprintf("%s object %d", id, i), obj.Handle, moveOnly)
			ot.end.Position = hidden
			g.tracks = append(g.tracks, ot)
		}
		p.groups = append(p.groups, g)
	}

	for _, id := range e.topo.EnteringWalls(from, to) {
		w, _ := e.registry.Wall(id)
		g := &group{wall: id}

		wt := newTrack(id.String()+" wall", w.Handle, moveOnly)
		wt.start.Position = hidden
		wt.end.Position = w.VisiblePosition
		g.tracks = append(g.tracks, wt)

		wallPose := w.VisiblePose()
		for i, obj := range e.registry.ObjectsOf(id) {
			ot := newTrack(fmt.Sprintf("%s object %d", id, i), obj.Handle, slerp)
			ot.start.Position = hidden
			ot.end = obj.WorldPose(wallPose)
			g.tracks = append(g.tracks, ot)
		}
		p.groups = append(p.groups, g)
	}

	if e.camera != nil {
		ct := newTrack("camera", e.camera, lerpEuler)
		ct.end = e.topo.CameraPose(to)
		p.camera = ct
	} else {
		e.logger.WithFields(logrus.Fields{"from": from, "to": to}).Debug("no camera attached, transition moves walls only")
	}
	return p
}
