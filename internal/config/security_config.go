package config

type SecurityLevel int

const (
	SecurityPublic   SecurityLevel = iota // No login needed
	SecurityLoggedIn                      // A user must be logged in
	SecurityAdmin                         // The logged-in user must be an admin
)

// RouteSecurityConfig maps route names to their required security level.
// Routes missing from the map require a logged-in user.
var RouteSecurityConfig = map[string]SecurityLevel{
	"health":      SecurityPublic,
	"auth.login":  SecurityPublic,
	"auth.logout": SecurityPublic,

	"auth.password":  SecurityLoggedIn,
	"profile.update": SecurityLoggedIn,

	// Admin-gated mutations
	"transactions.delete":     SecurityAdmin,
	"inventory.stock":         SecurityAdmin,
	"delivery_pricing.update": SecurityAdmin,
	"delivery_pricing.create": SecurityAdmin,
}

// RouteSecurity returns the security level of a named route
func RouteSecurity(name string) SecurityLevel {
	if level, ok := RouteSecurityConfig[name]; ok {
		return level
	}
	return SecurityLoggedIn
}
