package projects_interfaces

import "github.com/google/uuid"

// ProjectDeletionListener removes data a project owns before the project row
// goes away.
type ProjectDeletionListener interface {
	OnBeforeProjectDeletion(projectID uuid.UUID) error
}
