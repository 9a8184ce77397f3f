package asm

import (
	"sort"

	"mos6502asm/pkg/address"
)

// AssembledBlock keeps the relocated label table of an assembled Block.
type AssembledBlock struct {
	labels map[string]address.Address
}

// Symbol is a label and its final address.
type Symbol struct {
	Name    string
	Address address.Address
}

// AddressOf returns the final address of label.
func (a *AssembledBlock) AddressOf(label string) (address.Address, bool) {
	addr, ok := a.labels[label]
	return addr, ok
}

// Labels lists every label sorted by name.
func (a *AssembledBlock) Labels() []Symbol {
	out := make([]Symbol, 0, len(a.labels))
	for name, addr := range a.labels {
		out = append(out, Symbol{Name: name, Address: addr})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
