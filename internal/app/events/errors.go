package events

// Kind discriminates the closed set of data-layer failures.
type Kind int

const (
	// KindNetwork covers connectivity failures, including exhaustion of the
	// offline cache fallback.
	KindNetwork Kind = iota
	// KindHTTP covers every other failure, malformed responses included.
	KindHTTP
)

// Error is the failure type surfaced by the events Service. It carries
// exactly one of the two kinds; consumers switch on Kind.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
