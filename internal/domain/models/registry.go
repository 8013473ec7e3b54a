package models

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// Reserved registry keys
const (
	SaltKey    = "SALT"
	FactoryKey = "CREATE3Factory"
)

// AddressRegistry maps tracking names to deployed addresses for one network.
// It also carries the global deployment salt and the CREATE3 factory address
// under the reserved keys SaltKey and FactoryKey.
type AddressRegistry struct {
	Network string
	entries map[string]string
}

// NewAddressRegistry creates a registry from raw entries. A nil map yields an empty registry.
func NewAddressRegistry(network string, entries map[string]string) *AddressRegistry {
	r := &AddressRegistry{
		Network: network,
		entries: make(map[string]string, len(entries)),
	}
	for k, v := range entries {
		r.entries[k] = v
	}
	return r
}

// Get returns the raw value stored under name.
func (r *AddressRegistry) Get(name string) (string, bool) {
	v, ok := r.entries[name]
	return v, ok && v != ""
}

// Address returns the address stored under name, if it is a valid hex address.
func (r *AddressRegistry) Address(name string) (common.Address, bool) {
	v, ok := r.Get(name)
	if !ok || !common.IsHexAddress(v) {
		return common.Address{}, false
	}
	return common.HexToAddress(v), true
}

// Set stores address under name and reports whether the stored value changed.
func (r *AddressRegistry) Set(name string, address common.Address) bool {
	v := address.Hex()
	if r.entries[name] == v {
		return false
	}
	r.entries[name] = v
	return true
}

// SetRaw stores an arbitrary string value, used for the reserved keys.
func (r *AddressRegistry) SetRaw(name, value string) bool {
	if r.entries[name] == value {
		return false
	}
	r.entries[name] = value
	return true
}

// Salt returns the global deployment salt.
func (r *AddressRegistry) Salt() (string, bool) {
	return r.Get(SaltKey)
}

// Factory returns the CREATE3 factory address.
func (r *AddressRegistry) Factory() (common.Address, bool) {
	return r.Address(FactoryKey)
}

// Names returns the tracked contract names in sorted order, excluding reserved keys.
func (r *AddressRegistry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for k := range r.entries {
		if k == SaltKey || k == FactoryKey {
			continue
		}
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Entries returns a copy of all raw entries, reserved keys included.
func (r *AddressRegistry) Entries() map[string]string {
	out := make(map[string]string, len(r.entries))
	for k, v := range r.entries {
		out[k] = v
	}
	return out
}

// Len returns the number of raw entries.
func (r *AddressRegistry) Len() int {
	return len(r.entries)
}
