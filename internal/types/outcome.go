package types

// EntityType names the kind of entity an outcome refers to.
type EntityType string

const (
	EntityTypeProduct      EntityType = "product"
	EntityTypePrice        EntityType = "price"
	EntityTypeSubscription EntityType = "subscription"
	EntityTypeCustomer     EntityType = "customer"
)

// MigrationAction is what happened to one entity during a run.
type MigrationAction string

const (
	MigrationActionCreated     MigrationAction = "created"
	MigrationActionUpdated     MigrationAction = "updated"
	MigrationActionUnchanged   MigrationAction = "unchanged"
	MigrationActionMatched     MigrationAction = "matched"
	MigrationActionMarked      MigrationAction = "marked"
	MigrationActionSkipped     MigrationAction = "skipped"
	MigrationActionFailed      MigrationAction = "failed"
	MigrationActionWouldCreate MigrationAction = "would_create"
	MigrationActionWouldUpdate MigrationAction = "would_update"
	MigrationActionWouldMark   MigrationAction = "would_mark"
)

// IsWrite reports whether the action changed remote state.
func (a MigrationAction) IsWrite() bool {
	switch a {
	case MigrationActionCreated, MigrationActionUpdated, MigrationActionMarked:
		return true
	default:
		return false
	}
}
