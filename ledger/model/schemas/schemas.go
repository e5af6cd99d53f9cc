package schemas

const (
	// SchemasTag is the tag under which the ledger schemas are registered.
	SchemasTag = "ledger"
)
