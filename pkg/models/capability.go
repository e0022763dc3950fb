package models

import "fmt"

// Capability describes what a registered worker can do.
// It is registered once at startup and treated as immutable afterward;
// changing a worker's capability requires explicit re-registration.
type Capability struct {
	// ID is the unique worker identifier, stable for the process lifetime.
	ID string `json:"id" yaml:"id"`
	// Name is the human-readable worker name.
	Name string `json:"name" yaml:"name"`
	// Description explains what the worker does.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// ExpertiseTags lists the kinds of work this worker handles.
	ExpertiseTags []string `json:"expertise_tags" yaml:"expertise_tags"`
	// BaseConfidence is a static prior on worker quality, in [0,1].
	BaseConfidence float64 `json:"base_confidence" yaml:"base_confidence"`
}

// Validate checks that the capability is well formed.
func (c Capability) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("capability: missing id")
	}
	if c.Name == "" {
		return fmt.Errorf("capability %s: missing name", c.ID)
	}
	if len(c.ExpertiseTags) == 0 {
		return fmt.Errorf("capability %s: no expertise tags", c.ID)
	}
	if c.BaseConfidence < 0 || c.BaseConfidence > 1 {
		return fmt.Errorf("capability %s: base confidence %v out of range [0,1]", c.ID, c.BaseConfidence)
	}
	return nil
}

// HasTag returns true if the capability declares the given expertise tag.
func (c Capability) HasTag(tag string) bool {
	for _, t := range c.ExpertiseTags {
		if t == tag {
			return true
		}
	}
	return false
}

// Equal returns true if two capabilities are identical field for field.
// Used to make duplicate registration idempotent.
func (c Capability) Equal(other Capability) bool {
	if c.ID != other.ID || c.Name != other.Name || c.Description != other.Description {
		return false
	}
	if c.BaseConfidence != other.BaseConfidence {
		return false
	}
	if len(c.ExpertiseTags) != len(other.ExpertiseTags) {
		return false
	}
	for i, tag := range c.ExpertiseTags {
		if other.ExpertiseTags[i] != tag {
			return false
		}
	}
	return true
}
