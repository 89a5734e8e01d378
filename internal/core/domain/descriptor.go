package domain

// ArgumentDescriptor is the declarative form of an argument, as read from a catalog.
// A descriptor with an Expression describes a derived argument; without one it
// describes an input argument.
type ArgumentDescriptor struct {
	Name       string
	Type       string
	Cacheable  bool
	Async      bool
	Expression string
	// DependsOn optionally lists the arguments the expression is expected to reference.
	DependsOn []string
}

// IsDerived reports whether the descriptor carries an expression.
func (d ArgumentDescriptor) IsDerived() bool {
	return d.Expression != ""
}
