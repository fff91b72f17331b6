package graph

// Event is a structural or attribute change of one graph. The concrete
// types below form a closed set; use a type switch to inspect them.
//
// Events are delivered after the change they describe, except
// [EdgeEndsChanging] and [LocalPropertyDeleting], which announce a change
// that is about to happen.
type Event interface {
	// Source returns the graph the event is about.
	Source() *Graph
	graphEvent()
}

// NodeAdded reports that Node was inserted into Graph.
type NodeAdded struct {
	Graph *Graph
	Node  Node
}

// NodeDeleted reports that Node was removed from Graph.
type NodeDeleted struct {
	Graph *Graph
	Node  Node
	pos   int
}

// EdgeAdded reports that Edge was inserted into Graph.
type EdgeAdded struct {
	Graph *Graph
	Edge  Edge
}

// EdgeDeleted reports that Edge was removed from Graph. From and To are
// the ends it had.
type EdgeDeleted struct {
	Graph    *Graph
	Edge     Edge
	From, To Node
	pos      int
	adjPos   [2]int
}

// EdgeReversed reports that the ends of Edge were swapped.
type EdgeReversed struct {
	Graph *Graph
	Edge  Edge
}

// EdgeEndsChanging announces that the ends of Edge are about to change.
type EdgeEndsChanging struct {
	Graph *Graph
	Edge  Edge
}

// EdgeEndsChanged reports that Edge moved away from OldSource and OldTarget.
type EdgeEndsChanged struct {
	Graph                *Graph
	Edge                 Edge
	OldSource, OldTarget Node
	adjPos               [2]int
}

// SubGraphAdded reports that SubGraph became a child of Graph.
type SubGraphAdded struct {
	Graph    *Graph
	SubGraph *Graph
	pos      int
}

// SubGraphDeleted reports that SubGraph was detached from Graph. Its
// children, if any, were moved to Graph.
type SubGraphDeleted struct {
	Graph    *Graph
	SubGraph *Graph
	pos      int
	children []*Graph
}

// LocalPropertyAdded reports that Property was registered on Graph.
type LocalPropertyAdded struct {
	Graph    *Graph
	Name     string
	Property PropertyInterface
}

// LocalPropertyDeleting announces that Property is about to be removed
// from Graph.
type LocalPropertyDeleting struct {
	Graph    *Graph
	Name     string
	Property PropertyInterface
}

// LocalPropertyDeleted reports that the local property Name was removed.
type LocalPropertyDeleted struct {
	Graph    *Graph
	Name     string
	property PropertyInterface
}

// InheritedPropertyAdded reports that an ancestor of Graph declared a
// property that Graph now sees.
type InheritedPropertyAdded struct {
	Graph *Graph
	Name  string
}

// InheritedPropertyDeleted reports that an inherited property is no longer
// visible from Graph.
type InheritedPropertyDeleted struct {
	Graph *Graph
	Name  string
}

// PropertyRenamed reports that a local property of Graph changed its name.
type PropertyRenamed struct {
	Graph            *Graph
	Property         PropertyInterface
	OldName, NewName string
}

// AttributeSet reports that attribute Name was set on Graph.
type AttributeSet struct {
	Graph  *Graph
	Name   string
	old    any
	hadOld bool
}

// AttributeRemoved reports that attribute Name was removed from Graph.
type AttributeRemoved struct {
	Graph *Graph
	Name  string
	old   any
}

func (e NodeAdded) Source() *Graph                { return e.Graph }
func (e NodeDeleted) Source() *Graph              { return e.Graph }
func (e EdgeAdded) Source() *Graph                { return e.Graph }
func (e EdgeDeleted) Source() *Graph              { return e.Graph }
func (e EdgeReversed) Source() *Graph             { return e.Graph }
func (e EdgeEndsChanging) Source() *Graph         { return e.Graph }
func (e EdgeEndsChanged) Source() *Graph          { return e.Graph }
func (e SubGraphAdded) Source() *Graph            { return e.Graph }
func (e SubGraphDeleted) Source() *Graph          { return e.Graph }
func (e LocalPropertyAdded) Source() *Graph       { return e.Graph }
func (e LocalPropertyDeleting) Source() *Graph    { return e.Graph }
func (e LocalPropertyDeleted) Source() *Graph     { return e.Graph }
func (e InheritedPropertyAdded) Source() *Graph   { return e.Graph }
func (e InheritedPropertyDeleted) Source() *Graph { return e.Graph }
func (e PropertyRenamed) Source() *Graph          { return e.Graph }
func (e AttributeSet) Source() *Graph             { return e.Graph }
func (e AttributeRemoved) Source() *Graph         { return e.Graph }

func (NodeAdded) graphEvent()                {}
func (NodeDeleted) graphEvent()              {}
func (EdgeAdded) graphEvent()                {}
func (EdgeDeleted) graphEvent()              {}
func (EdgeReversed) graphEvent()             {}
func (EdgeEndsChanging) graphEvent()         {}
func (EdgeEndsChanged) graphEvent()          {}
func (SubGraphAdded) graphEvent()            {}
func (SubGraphDeleted) graphEvent()          {}
func (LocalPropertyAdded) graphEvent()       {}
func (LocalPropertyDeleting) graphEvent()    {}
func (LocalPropertyDeleted) graphEvent()     {}
func (InheritedPropertyAdded) graphEvent()   {}
func (InheritedPropertyDeleted) graphEvent() {}
func (PropertyRenamed) graphEvent()          {}
func (AttributeSet) graphEvent()             {}
func (AttributeRemoved) graphEvent()         {}

// PropertyEvent is a value change of one property.
type PropertyEvent interface {
	// Source returns the property the event is about.
	Source() PropertyInterface
	propertyEvent()
}

// NodeValueSet reports that the value of Node changed.
type NodeValueSet struct {
	Property PropertyInterface
	Node     Node
	memo     memento
}

// EdgeValueSet reports that the value of Edge changed.
type EdgeValueSet struct {
	Property PropertyInterface
	Edge     Edge
	memo     memento
}

// AllNodeValueSet reports that the node default changed and every node value
// was reset to it.
type AllNodeValueSet struct {
	Property PropertyInterface
	memo     memento
}

// AllEdgeValueSet reports that the edge default changed and every edge value
// was reset to it.
type AllEdgeValueSet struct {
	Property PropertyInterface
	memo     memento
}

func (e NodeValueSet) Source() PropertyInterface    { return e.Property }
func (e EdgeValueSet) Source() PropertyInterface    { return e.Property }
func (e AllNodeValueSet) Source() PropertyInterface { return e.Property }
func (e AllEdgeValueSet) Source() PropertyInterface { return e.Property }

func (NodeValueSet) propertyEvent()    {}
func (EdgeValueSet) propertyEvent()    {}
func (AllNodeValueSet) propertyEvent() {}
func (AllEdgeValueSet) propertyEvent() {}

// memento holds the state a value change replaced. swap exchanges it with
// the current state, so calling it twice is a no-op.
type memento interface {
	swap()
}
