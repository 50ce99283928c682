package models

import (
	"slices"

	id "minimarket/pkg/domain"
)

// UserLocation is a saved delivery address owned by one user.
type UserLocation struct {
	ID        id.LocationID `json:"id"`
	Label     string        `json:"label"`
	City      string        `json:"city"`
	District  string        `json:"district"`
	Latitude  float64       `json:"latitude"`
	Longitude float64       `json:"longitude"`
}

// Branch is a physical store with its own stock.
type Branch struct {
	ID       id.BranchID `json:"id"`
	Name     string      `json:"name"`
	Address  string      `json:"address,omitempty"`
	District string      `json:"district,omitempty"`
}

// Selection is the persisted location context of one user on one device:
// the chosen location, the branches it unlocks and the branch being shopped.
//
// Invariants:
//   - BranchID is empty or one of Branches
type Selection struct {
	Location UserLocation `json:"location"`
	Branches []Branch     `json:"branches"`
	BranchID id.BranchID  `json:"branch_id,omitempty"`
}

// NewSelection preselects the first serviceable branch.
func NewSelection(loc UserLocation, branches []Branch) *Selection {
	s := &Selection{Location: loc, Branches: slices.Clone(branches)}
	if s.Branches == nil {
		s.Branches = []Branch{}
	}
	if len(s.Branches) > 0 {
		s.BranchID = s.Branches[0].ID
	}
	return s
}

func (s *Selection) Unlocks(branchID id.BranchID) bool {
	return slices.ContainsFunc(s.Branches, func(b Branch) bool { return b.ID == branchID })
}

// ActiveBranch returns the branch being shopped, if any.
func (s *Selection) ActiveBranch() (Branch, bool) {
	i := slices.IndexFunc(s.Branches, func(b Branch) bool { return b.ID == s.BranchID })
	if i < 0 {
		return Branch{}, false
	}
	return s.Branches[i], true
}
