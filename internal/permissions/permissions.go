// Package permissions maps an actor and a task to the operations the actor
// may perform on it.
package permissions

import "github.com/yukikurage/task-tracker-api/internal/models"

type Capability string

const (
	View                Capability = "view"
	Edit                Capability = "edit"
	ChangeStatus        Capability = "change_status"
	Delete              Capability = "delete"
	ManageCollaborators Capability = "manage_collaborators"
)

// Set is an immutable set of capabilities.
type Set map[Capability]struct{}

func newSet(caps ...Capability) Set {
	s := make(Set, len(caps))
	for _, c := range caps {
		s[c] = struct{}{}
	}
	return s
}

func (s Set) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

var (
	ownerCapabilities        = newSet(View, Edit, ChangeStatus, Delete, ManageCollaborators)
	collaboratorCapabilities = newSet(View, Edit, ChangeStatus)
	noCapabilities           = newSet()
)

// For returns what actor may do with task. task.Collaborators must be loaded
// for collaborator access to be recognized.
func For(actor models.User, task models.Task) Set {
	switch {
	case actor.IsAdmin, actor.ID == task.OwnerID:
		return ownerCapabilities
	case task.HasCollaborator(actor.ID):
		return collaboratorCapabilities
	default:
		return noCapabilities
	}
}
