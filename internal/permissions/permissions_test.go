package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/task-tracker-api/internal/models"
)

func TestFor(t *testing.T) {
	task := models.Task{
		ID:      1,
		OwnerID: 10,
		Collaborators: []models.TaskCollaborator{
			{TaskID: 1, UserID: 20},
		},
	}

	all := []Capability{View, Edit, ChangeStatus, Delete, ManageCollaborators}

	tests := []struct {
		name  string
		actor models.User
		want  []Capability
	}{
		{"owner", models.User{ID: 10}, all},
		{"admin", models.User{ID: 99, IsAdmin: true}, all},
		{"collaborator", models.User{ID: 20}, []Capability{View, Edit, ChangeStatus}},
		{"stranger", models.User{ID: 30}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := For(tt.actor, task)
			for _, c := range all {
				assert.Equal(t, contains(tt.want, c), got.Has(c), "%s %s", tt.name, c)
			}
		})
	}
}

func contains(caps []Capability, c Capability) bool {
	for _, x := range caps {
		if x == c {
			return true
		}
	}
	return false
}
