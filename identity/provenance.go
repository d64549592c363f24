package identity

// Kind tells which path resolved a result.
type Kind int

const (
	Unknown Kind = iota
	ComponentRef
	RawDatumRef
)

func (k Kind) String() string {
	switch k {
	case ComponentRef:
		return "component"
	case RawDatumRef:
		return "raw_datum"
	default:
		return "unknown"
	}
}

// Provenance is the path a result's indicator was recovered through.
// IndicatorID is zero for Unknown.
type Provenance struct {
	Kind        Kind
	IndicatorID uint
}

// NewProvenance applies the precedence between the two paths: the component
// path first, then the raw datum path.
func NewProvenance(componentIndicator, rawIndicator *uint) Provenance {
	switch {
	case componentIndicator != nil:
		return Provenance{Kind: ComponentRef, IndicatorID: *componentIndicator}
	case rawIndicator != nil:
		return Provenance{Kind: RawDatumRef, IndicatorID: *rawIndicator}
	default:
		return Provenance{Kind: Unknown}
	}
}

func (p Provenance) Resolved() bool { return p.Kind != Unknown }
