package domain

// NeedStatus is the traffic-light state of a center's demand for one blood type.
type NeedStatus string

const (
	NeedOK     NeedStatus = "ok"
	NeedNeed   NeedStatus = "need"
	NeedUrgent NeedStatus = "urgent"
)

// Next advances the traffic light one step: ok -> need -> urgent -> ok.
func (s NeedStatus) Next() NeedStatus {
	switch s {
	case NeedOK:
		return NeedNeed
	case NeedNeed:
		return NeedUrgent
	default:
		return NeedOK
	}
}

// Active reports whether the status represents open demand.
func (s NeedStatus) Active() bool {
	return s == NeedNeed || s == NeedUrgent
}

// Marker returns the emoji used on the traffic-light board.
func (s NeedStatus) Marker() string {
	switch s {
	case NeedNeed:
		return "🟡"
	case NeedUrgent:
		return "🔴"
	default:
		return "🟢"
	}
}
