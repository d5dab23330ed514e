package texture

import (
	"sort"

	"github.com/pkg/errors"
)

type Slot string

const (
	SlotAlbedo    Slot = "albedo"
	SlotMetallic  Slot = "metallic"
	SlotRoughness Slot = "roughness"
	SlotNormal    Slot = "normal"
	SlotAO        Slot = "ao"
)

var slots = []Slot{SlotAlbedo, SlotMetallic, SlotRoughness, SlotNormal, SlotAO}

func Slots() []Slot {
	return append([]Slot(nil), slots...)
}

func ParseSlot(name string) (Slot, error) {
	for _, s := range slots {
		if string(s) == name {
			return s, nil
		}
	}
	return "", errors.Wrapf(ErrConfiguration, "unknown texture slot %q", name)
}

// Set maps semantic slots to image sources. Every slot is optional.
type Set map[Slot]Source

// HasMetallicRoughness reports whether both halves of the packed map are present.
func (s Set) HasMetallicRoughness() bool {
	return s[SlotMetallic] != nil && s[SlotRoughness] != nil
}

// Unpaired returns the metallic or roughness slot present without its pair.
func (s Set) Unpaired() (Slot, bool) {
	m, r := s[SlotMetallic] != nil, s[SlotRoughness] != nil
	switch {
	case m && !r:
		return SlotMetallic, true
	case r && !m:
		return SlotRoughness, true
	}
	return "", false
}

// Validate checks that all keys are known slots and no source is nil.
func (s Set) Validate() error {
	keys := make([]string, 0, len(s))
	for slot := range s {
		keys = append(keys, string(slot))
	}
	sort.Strings(keys)

	for _, key := range keys {
		slot, err := ParseSlot(key)
		if err != nil {
			return err
		}
		if s[slot] == nil {
			return errors.Wrapf(ErrConfiguration, "slot %q has no source", key)
		}
	}
	return nil
}

// FromValues builds a Set from loosely typed values, see SourceOf.
func FromValues(values map[string]interface{}) (Set, error) {
	set := make(Set, len(values))
	for name, v := range values {
		slot, err := ParseSlot(name)
		if err != nil {
			return nil, err
		}
		src, err := SourceOf(v)
		if err != nil {
			return nil, errors.Wrapf(err, "slot %q", name)
		}
		set[slot] = src
	}
	return set, nil
}
