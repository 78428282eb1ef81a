package component

// Listener marks the entity whose transform positional audio is heard from.
// If several are active the first one wins.
type Listener struct {
	Active bool
}

var ListenerComponent = NewComponent[Listener]("listener")
