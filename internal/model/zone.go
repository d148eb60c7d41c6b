package model

// Zone is the body region a hit collider is classified as.
type Zone int32

const (
	// ZoneBody - any collider without a recognized label
	ZoneBody Zone = iota
	// ZoneGut - collider labeled "Gut"
	ZoneGut
	// ZoneHead - collider labeled "Head"
	ZoneHead
)

// Collider labels carried by hit volumes.
const (
	LabelHead = "Head"
	LabelGut  = "Gut"
)

// ZoneFromLabel classifies a collider label.
// Only the exact labels "Head" and "Gut" are recognized; everything else,
// including the empty label, is the body.
func ZoneFromLabel(label string) Zone {
	switch label {
	case LabelHead:
		return ZoneHead
	case LabelGut:
		return ZoneGut
	default:
		return ZoneBody
	}
}

// String returns human-readable zone name
func (z Zone) String() string {
	switch z {
	case ZoneBody:
		return "BODY"
	case ZoneGut:
		return "GUT"
	case ZoneHead:
		return "HEAD"
	default:
		return "UNKNOWN"
	}
}
