package terminal

// MouseButton identifies the button of a mouse event; wheel motion is a button too
type MouseButton uint8

const (
	MouseBtnNone MouseButton = iota
	MouseBtnLeft
	MouseBtnMiddle
	MouseBtnRight
	MouseBtnWheelUp
	MouseBtnWheelDown
	MouseBtnBack    // Button 4, tcell device only
	MouseBtnForward // Button 5, tcell device only
)

// MouseAction is what the button did
type MouseAction uint8

const (
	MouseActionNone MouseAction = iota
	MouseActionPress
	MouseActionRelease
	MouseActionMove
	MouseActionDrag
)

var mouseButtonNames = [...]string{
	MouseBtnNone:      "none",
	MouseBtnLeft:      "left",
	MouseBtnMiddle:    "middle",
	MouseBtnRight:     "right",
	MouseBtnWheelUp:   "wheel_up",
	MouseBtnWheelDown: "wheel_down",
	MouseBtnBack:      "back",
	MouseBtnForward:   "forward",
}

var mouseActionNames = [...]string{
	MouseActionNone:    "none",
	MouseActionPress:   "press",
	MouseActionRelease: "release",
	MouseActionMove:    "move",
	MouseActionDrag:    "drag",
}

func (b MouseButton) String() string {
	if int(b) < len(mouseButtonNames) {
		return mouseButtonNames[b]
	}
	return "none"
}

func (a MouseAction) String() string {
	if int(a) < len(mouseActionNames) {
		return mouseActionNames[a]
	}
	return "none"
}
