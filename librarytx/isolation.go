package librarytx

// IsolationLevel is the transaction isolation level requested when a unit of work begins.
// Adapters map it to the driver specific representation.
type IsolationLevel int

const (
	// IsolationDefault leaves the choice to the database (READ COMMITTED for PostgreSQL).
	IsolationDefault IsolationLevel = iota
	IsolationReadCommitted
	IsolationRepeatableRead
	IsolationSerializable
)

// String returns the SQL name of the isolation level.
func (l IsolationLevel) String() string {
	switch l {
	case IsolationReadCommitted:
		return "read committed"
	case IsolationRepeatableRead:
		return "repeatable read"
	case IsolationSerializable:
		return "serializable"
	default:
		return "default"
	}
}
