package types

type ContributorRole string

const (
	RoleBuilder   ContributorRole = "Builder"
	RoleArtist    ContributorRole = "Artist"
	RoleCoder     ContributorRole = "Coder"
	RoleVisionary ContributorRole = "Visionary"
	RolePromoter  ContributorRole = "Promoter"
)

var ValidContributorRoles = []ContributorRole{
	RoleBuilder,
	RoleArtist,
	RoleCoder,
	RoleVisionary,
	RolePromoter,
}

func IsValidContributorRole(role ContributorRole) bool {
	for _, r := range ValidContributorRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Contributor is embedded as a JSON array element inside dreams and cocoons.
type Contributor struct {
	Wallet   string          `json:"wallet"`
	Role     ContributorRole `json:"role"`
	JoinedAt string          `json:"joinedAt"`
}

type ContributorAction string

const (
	ContributorAdded   ContributorAction = "added"
	ContributorRemoved ContributorAction = "removed"
)
