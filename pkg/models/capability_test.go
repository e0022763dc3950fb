package models

import "testing"

func validCapability() Capability {
	return Capability{
		ID:             "w1",
		Name:           "Transcriber",
		Description:    "Converts audio to text",
		ExpertiseTags:  []string{"transcription", "audio"},
		BaseConfidence: 0.9,
	}
}

func TestCapability_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Capability)
		wantErr bool
	}{
		{"valid capability", func(c *Capability) {}, false},
		{"missing id", func(c *Capability) { c.ID = "" }, true},
		{"missing name", func(c *Capability) { c.Name = "" }, true},
		{"no tags", func(c *Capability) { c.ExpertiseTags = nil }, true},
		{"confidence below zero", func(c *Capability) { c.BaseConfidence = -0.1 }, true},
		{"confidence above one", func(c *Capability) { c.BaseConfidence = 1.1 }, true},
		{"confidence at bounds", func(c *Capability) { c.BaseConfidence = 1.0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCapability()
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCapability_HasTag(t *testing.T) {
	c := validCapability()
	if !c.HasTag("transcription") {
		t.Error("HasTag should find declared tag")
	}
	if c.HasTag("nlp") {
		t.Error("HasTag should not find undeclared tag")
	}
}

func TestCapability_Equal(t *testing.T) {
	a := validCapability()
	b := validCapability()
	if !a.Equal(b) {
		t.Error("identical capabilities should be equal")
	}

	b.BaseConfidence = 0.5
	if a.Equal(b) {
		t.Error("differing confidence should not be equal")
	}

	b = validCapability()
	b.ExpertiseTags = []string{"transcription"}
	if a.Equal(b) {
		t.Error("differing tags should not be equal")
	}
}
