package types

// AccountRole names one side of a migration.
type AccountRole string

const (
	AccountSource AccountRole = "source"
	AccountTarget AccountRole = "target"
)

func (r AccountRole) String() string {
	return string(r)
}
