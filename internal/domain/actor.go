package domain

type ContextKey string

const ActorContextKey ContextKey = "actor"

// Role is a closed set. Anything outside it is rejected at the auth boundary.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
	RoleRider    Role = "rider"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAdmin, RoleRider:
		return true
	}
	return false
}

// ActorContext identifies who is performing a core operation. It is passed
// explicitly into every usecase; the core never reads ambient session state.
type ActorContext struct {
	ID    string
	Email string
	Role  Role
}
