package ir

// Attr is one key=value attribute. Attribute order is significant and
// preserved by printing, parsing, and cloning.
type Attr struct {
	Key   string
	Value string
}

// Operation is one node of the IR tree.
type Operation struct {
	Kind     string
	Symbol   string // optional symbol name, without the leading '@'
	Attrs    []Attr
	Children []*Operation
}

// NewOperation creates an operation of the given kind.
func NewOperation(kind string) *Operation {
	return &Operation{Kind: kind}
}

// Attr returns the value of the named attribute.
func (o *Operation) Attr(key string) (string, bool) {
	for _, a := range o.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets or replaces the named attribute, preserving position for
// replacements and appending otherwise.
func (o *Operation) SetAttr(key, value string) {
	for i := range o.Attrs {
		if o.Attrs[i].Key == key {
			o.Attrs[i].Value = value
			return
		}
	}
	o.Attrs = append(o.Attrs, Attr{Key: key, Value: value})
}

// RemoveAttr deletes the named attribute if present.
func (o *Operation) RemoveAttr(key string) {
	for i := range o.Attrs {
		if o.Attrs[i].Key == key {
			o.Attrs = append(o.Attrs[:i], o.Attrs[i+1:]...)
			return
		}
	}
}

// Append adds child operations at the end of the body.
func (o *Operation) Append(children ...*Operation) {
	o.Children = append(o.Children, children...)
}

// Clone deep-copies the operation subtree.
func (o *Operation) Clone() *Operation {
	c := &Operation{
		Kind:   o.Kind,
		Symbol: o.Symbol,
	}
	if len(o.Attrs) > 0 {
		c.Attrs = make([]Attr, len(o.Attrs))
		copy(c.Attrs, o.Attrs)
	}
	if len(o.Children) > 0 {
		c.Children = make([]*Operation, len(o.Children))
		for i, child := range o.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// Walk visits op and its subtree pre-order, children in declared order.
// The visitor returns false to stop the walk; Walk reports whether the
// walk ran to completion.
func Walk(op *Operation, fn func(*Operation) bool) bool {
	if !fn(op) {
		return false
	}
	for _, child := range op.Children {
		if !Walk(child, fn) {
			return false
		}
	}
	return true
}

// Module is the root IR handle passed to run and emit. It is mutated in
// place by the pipeline and never copied implicitly; callers that need a
// recovery point take a Clone first.
type Module struct {
	root *Operation
}

// NewModule creates an empty module.
func NewModule() *Module {
	return &Module{root: NewOperation("module")}
}

// ModuleFromRoot wraps an existing operation tree as a module.
func ModuleFromRoot(root *Operation) *Module {
	return &Module{root: root}
}

// Root returns the module's root operation.
func (m *Module) Root() *Operation {
	return m.root
}

// Clone deep-copies the module.
func (m *Module) Clone() *Module {
	return &Module{root: m.root.Clone()}
}

// String returns the module's textual form.
func (m *Module) String() string {
	return Print(m.root)
}
