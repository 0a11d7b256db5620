package provisioning

// EventType classifies structured provisioning events.
type EventType string

const (
	// EventResourceCreating indicates a resource is being requested.
	EventResourceCreating EventType = "resource.creating"
	// EventResourceCreated indicates a resource request was accepted.
	EventResourceCreated EventType = "resource.created"
	// EventResourceExists indicates a resource was already in place.
	EventResourceExists EventType = "resource.exists"
	// EventResourceReady indicates a resource passed its readiness check.
	EventResourceReady EventType = "resource.ready"
	// EventResourceDeleting indicates a resource is being deleted.
	EventResourceDeleting EventType = "resource.deleting"
	// EventResourceDeleted indicates a resource was deleted.
	EventResourceDeleted EventType = "resource.deleted"
	// EventResourceMissing indicates a resource to act on does not exist.
	EventResourceMissing EventType = "resource.missing"
)

// Event emits a structured event for one resource.
func (c *Context) Event(t EventType, kind, name string, keysAndValues ...any) {
	kv := append([]any{"event", string(t), "kind", kind, "resource", name}, keysAndValues...)
	c.Log.Info(eventMessage(t), kv...)
}

func eventMessage(t EventType) string {
	switch t {
	case EventResourceCreating:
		return "creating"
	case EventResourceCreated:
		return "created"
	case EventResourceExists:
		return "already exists"
	case EventResourceReady:
		return "ready"
	case EventResourceDeleting:
		return "deleting"
	case EventResourceDeleted:
		return "deleted"
	case EventResourceMissing:
		return "not found"
	default:
		return string(t)
	}
}
