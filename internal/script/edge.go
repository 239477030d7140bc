package script

// EdgeKind classifies a control transfer.
type EdgeKind int

const (
	EdgeJump EdgeKind = iota
	EdgeBranch
	EdgeFallthrough
	EdgeGosub
	EdgeCall
	EdgeFork
	EdgeTable
)

var edgeNames = [...]string{"jump", "branch", "fallthrough", "gosub", "call", "fork", "table"}

func (k EdgeKind) String() string {
	if int(k) < len(edgeNames) {
		return edgeNames[k]
	}
	return "unknown"
}

// Edge is a control transfer from an instruction or table to a probed
// destination.
type Edge struct {
	From int
	To   int
	Kind EdgeKind
}
