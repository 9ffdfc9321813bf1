package constants

import "fmt"

const (
	RoleOrganizer = "organizer"
	RoleVolunteer = "volunteer"
)

const ErrOnlyOrganizersCanAccess = "only organizers may access %s"

func RoleErrorOrganizer(feature string) string {
	return fmt.Sprintf(ErrOnlyOrganizersCanAccess, feature)
}

var OrganizerRoles = []string{RoleOrganizer}
