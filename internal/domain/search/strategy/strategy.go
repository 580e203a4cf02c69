package strategy

// Strategy identifies which search path produced a candidate or outcome.
type Strategy string

// Search strategy constants.
const (
	// Primary is plain filtered vector search.
	Primary Strategy = "primary"
	// Hybrid is fused vector + keyword search.
	Hybrid Strategy = "hybrid"
	// Relaxed is hybrid search after one or more filter relaxation steps.
	Relaxed Strategy = "relaxed"
)

// IsValid checks if the strategy is one of the supported values.
func (s Strategy) IsValid() bool {
	return s == Primary || s == Hybrid || s == Relaxed
}
