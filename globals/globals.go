package globals

var (
	// JwtSecret is replaced from JWT_SECRET at startup.
	JwtSecret = []byte("dev_secret_key")
)

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const UserIDKey ContextKey = "userId"
const UsernameKey ContextKey = "username"
