package utils

// EffectiveBranchFilter is the single role-scoping policy for list and
// dashboard endpoints: admins see the branch they asked for (or everything
// when requested is empty), branch-scoped staff are always restricted to
// their own branch no matter what they requested.
func EffectiveBranchFilter(role, ownBranchID, requestedBranchID string) string {
	if role == "admin" {
		return requestedBranchID
	}
	return ownBranchID
}
