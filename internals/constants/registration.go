package constants

// Registration statuses. Only StatusPresent counts against event capacity.
const (
	StatusPresent   = "present"
	StatusAbsent    = "absent"
	StatusUndecided = "undecided"
)

var RegistrationStatuses = []string{StatusPresent, StatusAbsent, StatusUndecided}

func IsRegistrationStatus(s string) bool {
	for _, v := range RegistrationStatuses {
		if v == s {
			return true
		}
	}
	return false
}
