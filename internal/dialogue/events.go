package dialogue

// Listener is notified of checklist milestones that other collaborators act
// on, such as stopping a focus timer.
type Listener interface {
	OnChecklistCompleted(conversationID, messageID string)
}

// ListenerFunc adapts a plain function to Listener.
type ListenerFunc func(conversationID, messageID string)

func (f ListenerFunc) OnChecklistCompleted(conversationID, messageID string) {
	f(conversationID, messageID)
}
