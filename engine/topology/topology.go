// Package topology describes the four fixed room views: which two walls each view shows and
// where the camera sits for it.
package topology

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/roomview/common"
	"github.com/Carmen-Shannon/roomview/engine/wall"
	"github.com/go-gl/mathgl/mgl32"
)

// ViewCount is the number of views around the room.
const ViewCount = 4

var (
	// ErrInvalidView is returned for view indices outside [0, ViewCount).
	ErrInvalidView = errors.New("invalid view index")
	// ErrUnknownViewName is returned when a view name matches none of the four views.
	ErrUnknownViewName = errors.New("unknown view name")
	// ErrInvalidTopology is returned by New for a malformed view list.
	ErrInvalidTopology = errors.New("invalid topology")
)

// View is one camera viewpoint and the two walls it shows.
type View struct {
	Index   int
	Name    string
	Visible [2]wall.WallID
	Camera  common.Pose
}

// Shows reports whether the view has w among its visible walls.
func (v View) Shows(w wall.WallID) bool {
	return v.Visible[0] == w || v.Visible[1] == w
}

// Topology is an immutable table of the four views.
type Topology struct {
	views [ViewCount]View
}

// New validates views and builds a Topology. Each view must show two distinct, known walls and
// view names, when set, must be unique. View.Index is overwritten with the slot position.
//
// Parameters:
//   - views: the four views in index order
//
// Returns:
//   - *Topology: the topology
//   - error: ErrInvalidTopology wrapped with the offending view
func New(views [ViewCount]View) (*Topology, error) {
	names := make(map[string]int, ViewCount)
	for i := range views {
		v := &views[i]
		v.Index = i
		if !v.Visible[0].Valid() || !v.Visible[1].Valid() {
			return nil, fmt.Errorf("topology: view %d: unknown wall in %v: %w", i, v.Visible, ErrInvalidTopology)
		}
		if v.Visible[0] == v.Visible[1] {
			return nil, fmt.Errorf("topology: view %d: wall %s listed twice: %w", i, v.Visible[0], ErrInvalidTopology)
		}
		if v.Name == "" {
			continue
		}
		key := strings.ToLower(v.Name)
		if prev, ok := names[key]; ok {
			return nil, fmt.Errorf("topology: view %d: name %q already used by view %d: %w", i, v.Name, prev, ErrInvalidTopology)
		}
		names[key] = i
	}
	return &Topology{views: views}, nil
}

// Default returns the reference room: NorthEast, SouthEast, SouthWest and NorthWest, with the
// camera circling the room at a 24.4 degree downward pitch.
func Default() *Topology {
	t, _ := New([ViewCount]View{
		{
			Name:    "NorthEast",
			Visible: [2]wall.WallID{wall.North, wall.East},
			Camera:  common.Pose{Position: mgl32.Vec3{5.69, 6.14, -7.56}, Rotation: mgl32.Vec3{24.408, 306.719, 0.009}},
		},
		{
			Name:    "SouthEast",
			Visible: [2]wall.WallID{wall.South, wall.East},
			Camera:  common.Pose{Position: mgl32.Vec3{5.69, 6.14, 7.56}, Rotation: mgl32.Vec3{24.408, 233.281, 0.009}},
		},
		{
			Name:    "SouthWest",
			Visible: [2]wall.WallID{wall.South, wall.West},
			Camera:  common.Pose{Position: mgl32.Vec3{-5.69, 6.14, 7.56}, Rotation: mgl32.Vec3{24.408, 126.719, 0.009}},
		},
		{
			Name:    "NorthWest",
			Visible: [2]wall.WallID{wall.North, wall.West},
			Camera:  common.Pose{Position: mgl32.Vec3{-5.69, 6.14, -7.56}, Rotation: mgl32.Vec3{24.408, 53.281, 0.009}},
		},
	})
	return t
}

// Valid reports whether index names a view.
func (t *Topology) Valid(index int) bool {
	return index >= 0 && index < ViewCount
}

// View returns the view at index.
//
// Parameters:
//   - index: view index in [0, 4)
//
// Returns:
//   - View: the view
//   - error: ErrInvalidView if index is out of range
func (t *Topology) View(index int) (View, error) {
	if !t.Valid(index) {
		return View{}, fmt.Errorf("topology: view %d: %w", index, ErrInvalidView)
	}
	return t.views[index], nil
}

// ViewByName looks a view up by name, case-insensitively.
//
// Parameters:
//   - name: the view name
//
// Returns:
//   - View: the view
//   - error: ErrUnknownViewName if no view has that name
func (t *Topology) ViewByName(name string) (View, error) {
	for _, v := range t.views {
		if v.Name != "" && strings.EqualFold(v.Name, strings.TrimSpace(name)) {
			return v, nil
		}
	}
	return View{}, fmt.Errorf("topology: view %q: %w", name, ErrUnknownViewName)
}

// Views returns a copy of all four views.
func (t *Topology) Views() [ViewCount]View {
	return t.views
}

// VisibleWalls returns the two walls shown by a view. Out-of-range indices yield the zero value.
func (t *Topology) VisibleWalls(index int) [2]wall.WallID {
	if !t.Valid(index) {
		return [2]wall.WallID{}
	}
	return t.views[index].Visible
}

// HiddenWalls returns the two walls a view keeps out of sight, in WallID order.
func (t *Topology) HiddenWalls(index int) []wall.WallID {
	if !t.Valid(index) {
		return nil
	}
	hidden := make([]wall.WallID, 0, 2)
	for _, w := range wall.AllWalls {
		if !t.views[index].Shows(w) {
			hidden = append(hidden, w)
		}
	}
	return hidden
}

// CameraPose returns the camera pose of a view. Out-of-range indices yield the zero pose.
func (t *Topology) CameraPose(index int) common.Pose {
	if !t.Valid(index) {
		return common.Pose{}
	}
	return t.views[index].Camera
}

// ExitingWalls returns the walls visible in from but not in to, in from's order.
//
// Parameters:
//   - from: the current view
//   - to: the target view
//
// Returns:
//   - []wall.WallID: walls that must hide, empty for identical or invalid views
func (t *Topology) ExitingWalls(from, to int) []wall.WallID {
	return t.diff(from, to)
}

// EnteringWalls returns the walls visible in to but not in from, in to's order.
//
// Parameters:
//   - from: the current view
//   - to: the target view
//
// Returns:
//   - []wall.WallID: walls that must appear, empty for identical or invalid views
func (t *Topology) EnteringWalls(from, to int) []wall.WallID {
	return t.diff(to, from)
}

// StayingWalls returns the walls visible in both views. They are never touched by a transition.
func (t *Topology) StayingWalls(from, to int) []wall.WallID {
	if !t.Valid(from) || !t.Valid(to) {
		return nil
	}
	var staying []wall.WallID
	for _, w := range t.views[from].Visible {
		if t.views[to].Shows(w) {
			staying = append(staying, w)
		}
	}
	return staying
}

// ExitingWall returns the single wall that hides when moving from one view to another.
// It is only defined when the views differ in exactly one wall.
//
// Parameters:
//   - from: the current view
//   - to: the target view
//
// Returns:
//   - wall.WallID: the exiting wall
//   - bool: false when the views differ in zero or two walls
func (t *Topology) ExitingWall(from, to int) (wall.WallID, bool) {
	exiting := t.diff(from, to)
	if len(exiting) != 1 {
		return 0, false
	}
	return exiting[0], true
}

// EnteringWall returns the single wall that appears when moving from one view to another.
// It is only defined when the views differ in exactly one wall.
//
// Parameters:
//   - from: the current view
//   - to: the target view
//
// Returns:
//   - wall.WallID: the entering wall
//   - bool: false when the views differ in zero or two walls
func (t *Topology) EnteringWall(from, to int) (wall.WallID, bool) {
	entering := t.diff(to, from)
	if len(entering) != 1 {
		return 0, false
	}
	return entering[0], true
}

// Step returns the view reached by rotating one notch from current.
// Negative directions rotate left, positive right; only the sign of dir matters.
//
// Parameters:
//   - current: the current view index
//   - dir: -1 for left, +1 for right
//
// Returns:
//   - int: (current + sign(dir) + 4) mod 4, or current when dir is 0
func (t *Topology) Step(current, dir int) int {
	switch {
	case dir < 0:
		dir = -1
	case dir > 0:
		dir = 1
	}
	return ((current+dir)%ViewCount + ViewCount) % ViewCount
}

// diff returns walls visible in a but not in b.
func (t *Topology) diff(a, b int) []wall.WallID {
	if !t.Valid(a) || !t.Valid(b) {
		return nil
	}
	var out []wall.WallID
	for _, w := range t.views[a].Visible {
		if !t.views[b].Shows(w) {
			out = append(out, w)
		}
	}
	return out
}
