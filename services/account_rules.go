package services

// ResolveRegistrationGrant decides the role and admin flag for a new staff
// account. The first account in an empty installation bootstraps as admin
// regardless of the requested role; after that, the admin flag follows the
// role so "admin" accounts can actually reach admin routes.
func ResolveRegistrationGrant(existingUsers int64, requestedRole string) (role string, isAdmin bool) {
	if existingUsers == 0 {
		return "admin", true
	}
	return requestedRole, requestedRole == "admin"
}
