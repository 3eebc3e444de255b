package types

// Role is the closed set of platform roles. Authorization is a capability
// table lookup, not string comparison in handlers.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleAnalyst Role = "analyst"
	RolePlanner Role = "planner"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAnalyst, RolePlanner:
		return true
	}
	return false
}

// Capability names an action a route may require.
type Capability string

const (
	CapManageUsers     Capability = "manage_users"
	CapUploadEmissions Capability = "upload_emissions"
	CapCreateScenario  Capability = "create_scenario"
	CapRunSimulation   Capability = "run_simulation"
	CapViewDashboard   Capability = "view_dashboard"
)

var roleCapabilities = map[Role]map[Capability]bool{
	RoleAdmin: {
		CapManageUsers:     true,
		CapUploadEmissions: true,
		CapCreateScenario:  true,
		CapRunSimulation:   true,
		CapViewDashboard:   true,
	},
	RoleAnalyst: {
		CapUploadEmissions: true,
		CapViewDashboard:   true,
	},
	RolePlanner: {
		CapCreateScenario: true,
		CapRunSimulation:  true,
		CapViewDashboard:  true,
	},
}

func (r Role) Can(c Capability) bool {
	caps, ok := roleCapabilities[r]
	if !ok {
		return false
	}
	return caps[c]
}
