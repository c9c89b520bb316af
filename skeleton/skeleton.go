/*
NAME
  skeleton.go

DESCRIPTION
  Provides the rigid skeleton hierarchy a clip is sampled against: an
  ordered, topologically-sorted sequence of bones, each carrying the
  bind pose and the vertex-distance weight the error metric uses.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package skeleton provides the rigid bone hierarchy that an
// animation clip is sampled against.
package skeleton

import (
	"github.com/ausocean/acl/errclass"
	"github.com/ausocean/acl/math"
)

// NoParent marks a bone as having no parent, i.e. a root bone.
const NoParent = -1

// Bone is one rigid node of a skeleton.
type Bone struct {
	// Name identifies the bone; used only for diagnostics and clip
	// file round-tripping.
	Name string

	// ParentIndex is the index of this bone's parent in the owning
	// Skeleton's Bones slice, or NoParent.
	ParentIndex int

	// BindRotation and BindTranslation are the bone's rest-pose local
	// transform components, used by clip readers that express samples
	// relative to the bind pose.
	BindRotation    math.Quaternion
	BindTranslation math.Vector3

	// VertexDistance is the radius (in clip units) of the virtual
	// probe sphere the error metric places at this bone; larger values
	// weight orientation error more heavily relative to position
	// error, approximating a bone with more skinned geometry attached.
	VertexDistance float64
}

// Skeleton is an ordered, topologically-sorted sequence of bones: a
// parent's index is always smaller than any of its children's.
type Skeleton struct {
	Bones []Bone
}

// New returns a Skeleton over bones, without validating it. Most
// callers should use NewValidated.
func New(bones []Bone) *Skeleton {
	return &Skeleton{Bones: bones}
}

// NewValidated returns a Skeleton over bones after checking the
// topological-order invariant, or an InvalidInput error.
func NewValidated(bones []Bone) (*Skeleton, error) {
	s := New(bones)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// NumBones returns the number of bones in the skeleton.
func (s *Skeleton) NumBones() int { return len(s.Bones) }

// Parent returns the parent index of bone i, or NoParent.
func (s *Skeleton) Parent(i int) int { return s.Bones[i].ParentIndex }

// IsRoot reports whether bone i has no parent.
func (s *Skeleton) IsRoot(i int) bool { return s.Bones[i].ParentIndex == NoParent }

// AncestorChain returns the indices from bone i up to (and including)
// its root ancestor, root-last (i.e. [i, parent(i), ..., root]).
func (s *Skeleton) AncestorChain(i int) []int {
	chain := []int{i}
	for cur := s.Parent(i); cur != NoParent; cur = s.Parent(cur) {
		chain = append(chain, cur)
	}
	return chain
}

// Validate enforces the skeleton invariant: every bone's parent index
// is either NoParent or strictly less than the bone's own index (a
// parent always precedes its children).
func (s *Skeleton) Validate() error {
	if len(s.Bones) == 0 {
		return errclass.New(errclass.InvalidInput, "skeleton: zero bones")
	}
	for i, b := range s.Bones {
		if b.ParentIndex == NoParent {
			continue
		}
		if b.ParentIndex < 0 || b.ParentIndex >= i {
			return errclass.Errorf(errclass.InvalidInput, "skeleton: bone %d (%q) has invalid parent index %d", i, b.Name, b.ParentIndex)
		}
	}
	return nil
}
