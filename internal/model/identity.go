package model

// Role is the actor kind carried by an authenticated identity.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleCandidate Role = "CANDIDATE"
)

// Identity is the authenticated (subject, role) pair resolved from a token.
type Identity struct {
	SubjectID string
	Role      Role
}

// Owns reports whether the identity is the candidate with the given id.
func (i Identity) Owns(candidateID string) bool {
	return i.Role == RoleCandidate && i.SubjectID != "" && i.SubjectID == candidateID
}
