package enum

// ── State machines (CHECK constrained in DB) ──

const (
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

const (
	GenderFemale = "female"
	GenderMale   = "male"
	GenderOthers = "others"
)

// ── Configurable labels (no DB constraint) ──

const (
	PaymentMethodCash  = "cash"
	PaymentMethodGcash = "gcash"
	PaymentMethodCard  = "card"
)

// Role names the seeder creates. Roles are DB rows, not an enum; these
// constants exist for the access table and route allow-lists.
const (
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
	RoleCashier = "Cashier"
)
