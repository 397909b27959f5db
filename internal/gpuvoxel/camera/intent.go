package camera

// Intent is a closed enumeration of named boolean input drives the camera
// understands. Hosts translate raw input (keys, gamepad buttons, ...) into
// these before calling BeginIntent/EndIntent.
type Intent int

const (
	TrackForward Intent = iota
	TrackBackward
	TruckLeft
	TruckRight
	PanLeft
	PanRight
	TiltUp
	TiltDown
	Sprint
)

// Input tracks which intents are currently active.
type Input struct {
	TrackForward  bool
	TrackBackward bool
	TruckLeft     bool
	TruckRight    bool
	PanLeft       bool
	PanRight      bool
	TiltUp        bool
	TiltDown      bool
	Sprint        bool
}

func (in *Input) set(i Intent, active bool) {
	switch i {
	case TrackForward:
		in.TrackForward = active
	case TrackBackward:
		in.TrackBackward = active
	case TruckLeft:
		in.TruckLeft = active
	case TruckRight:
		in.TruckRight = active
	case PanLeft:
		in.PanLeft = active
	case PanRight:
		in.PanRight = active
	case TiltUp:
		in.TiltUp = active
	case TiltDown:
		in.TiltDown = active
	case Sprint:
		in.Sprint = active
	}
}

// KeyToIntent maps a lowercase key label to the intent it drives. The
// second return value is false for unrecognised keys, which callers should
// silently ignore (spec's "input noise" handling).
func KeyToIntent(key string) (Intent, bool) {
	switch key {
	case "w":
		return TrackForward, true
	case "s":
		return TrackBackward, true
	case "a":
		return TruckLeft, true
	case "d":
		return TruckRight, true
	case "q":
		return PanLeft, true
	case "e":
		return PanRight, true
	case "r":
		return TiltUp, true
	case "f":
		return TiltDown, true
	case "shift":
		return Sprint, true
	default:
		return 0, false
	}
}
