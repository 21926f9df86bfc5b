package types

// AccountRole determines a node's position in the tenant tree and which
// node's counters govern call admission.
type AccountRole string

const (
	AccountRoleUser     AccountRole = "user"
	AccountRoleCompany  AccountRole = "company"
	AccountRoleReseller AccountRole = "reseller"
)

func (r AccountRole) Validate() bool {
	switch r {
	case AccountRoleUser, AccountRoleCompany, AccountRoleReseller:
		return true
	}
	return false
}

// BillingType describes how an account is charged for usage.
type BillingType string

const (
	BillingTypePrepaid  BillingType = "prepaid"
	BillingTypePostpaid BillingType = "postpaid"
)

// MaxHierarchyDepth bounds every parent-chain walk. The reparent gate is
// meant to keep the tree acyclic, but traversals must still terminate on
// corrupted data.
const MaxHierarchyDepth = 10
