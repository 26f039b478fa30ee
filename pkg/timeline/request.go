package timeline

import "fmt"

// MoveRequest asks the project-state owner to place a layer at a new
// translate position.
type MoveRequest struct {
	LayerID string  `json:"layer_id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

func (r MoveRequest) String() string {
	return fmt.Sprintf("move(%s, %g, %g)", r.LayerID, r.X, r.Y)
}

// SelectRequest asks the project-state owner to mark a layer as selected.
type SelectRequest struct {
	LayerID string `json:"layer_id"`
}

func (r SelectRequest) String() string { return fmt.Sprintf("select(%s)", r.LayerID) }

// Emitter receives the requests produced by user interaction. Calls arrive
// in pointer-event order and must be applied in the order received.
type Emitter interface {
	OnLayerMove(layerID string, x, y float64)
	OnLayerSelect(layerID string)
}

// EmitterFuncs adapts plain functions to [Emitter]. Nil fields are ignored.
type EmitterFuncs struct {
	Move   func(layerID string, x, y float64)
	Select func(layerID string)
}

func (f EmitterFuncs) OnLayerMove(layerID string, x, y float64) {
	if f.Move != nil {
		f.Move(layerID, x, y)
	}
}

func (f EmitterFuncs) OnLayerSelect(layerID string) {
	if f.Select != nil {
		f.Select(layerID)
	}
}

// Recorder is an [Emitter] that keeps every request in arrival order.
type Recorder struct {
	Moves   []MoveRequest
	Selects []SelectRequest
}

func (r *Recorder) OnLayerMove(layerID string, x, y float64) {
	r.Moves = append(r.Moves, MoveRequest{LayerID: layerID, X: x, Y: y})
}

func (r *Recorder) OnLayerSelect(layerID string) {
	r.Selects = append(r.Selects, SelectRequest{LayerID: layerID})
}

// Reset clears all recorded requests.
func (r *Recorder) Reset() {
	r.Moves = nil
	r.Selects = nil
}
