package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// LinkReference is a placeholder position inside unlinked bytecode, in bytes
type LinkReference struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// LinkReferences maps source file -> library name -> placeholder positions
type LinkReferences map[string]map[string][]LinkReference

// BytecodeObject holds hex bytecode which may still contain library placeholders.
// It decodes both the Hardhat form (a plain hex string) and the Foundry form
// ({"object": "0x...", "linkReferences": {...}}).
type BytecodeObject struct {
	Object         string         `json:"object"`
	LinkReferences LinkReferences `json:"linkReferences"`
}

func (b *BytecodeObject) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		b.Object = s
		return nil
	}
	type plain BytecodeObject
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*b = BytecodeObject(p)
	return nil
}

// hex returns the bytecode without 0x prefix
func (b BytecodeObject) hex() string {
	return strings.TrimPrefix(strings.TrimSpace(b.Object), "0x")
}

// Empty reports whether the object carries no code
func (b BytecodeObject) Empty() bool {
	return b.hex() == ""
}

// Size returns the code size in bytes. Placeholders count as the bytes they reserve.
func (b BytecodeObject) Size() int {
	return len(b.hex()) / 2
}

// Artifact is a compiled contract as emitted by Hardhat or Foundry
type Artifact struct {
	ContractName     string          `json:"contractName"`
	SourceName       string          `json:"sourceName"`
	ABI              json.RawMessage `json:"abi"`
	Bytecode         BytecodeObject  `json:"bytecode"`
	DeployedBytecode BytecodeObject  `json:"deployedBytecode"`

	// Hardhat keeps link references next to the bytecode instead of inside it
	LinkReferences         LinkReferences `json:"linkReferences"`
	DeployedLinkReferences LinkReferences `json:"deployedLinkReferences"`

	// Foundry only names the contract in the metadata compilation target
	Metadata json.RawMessage `json:"metadata,omitempty"`

	// Path is the file the artifact was read from
	Path string `json:"-"`
}

type artifactMetadata struct {
	Settings struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
	} `json:"settings"`
}

// ParseArtifact decodes a Hardhat or Foundry artifact.
func ParseArtifact(data []byte) (*Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	if len(a.Bytecode.LinkReferences) == 0 {
		a.Bytecode.LinkReferences = a.LinkReferences
	}
	if len(a.DeployedBytecode.LinkReferences) == 0 {
		a.DeployedBytecode.LinkReferences = a.DeployedLinkReferences
	}
	if a.ContractName == "" && len(a.Metadata) > 0 && a.Metadata[0] == '{' {
		var meta artifactMetadata
		if err := json.Unmarshal(a.Metadata, &meta); err == nil {
			for source, name := range meta.Settings.CompilationTarget {
				a.SourceName, a.ContractName = source, name
			}
		}
	}
	return &a, nil
}

// HasDeployedBytecode reports whether the artifact carries runtime code to compare against.
func (a *Artifact) HasDeployedBytecode() bool {
	return !a.DeployedBytecode.Empty()
}

// ParseABI parses the artifact ABI. An absent ABI yields an empty one.
func (a *Artifact) ParseABI() (*abi.ABI, error) {
	if len(bytes.TrimSpace(a.ABI)) == 0 || string(a.ABI) == "null" {
		return &abi.ABI{}, nil
	}
	parsed, err := abi.JSON(bytes.NewReader(a.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI of %s: %w", a.ContractName, err)
	}
	return &parsed, nil
}

// RequiredLibraries returns the library names referenced by the creation code.
func (a *Artifact) RequiredLibraries() []string {
	seen := make(map[string]bool)
	var libs []string
	for _, refs := range a.Bytecode.LinkReferences {
		for lib := range refs {
			if !seen[lib] {
				seen[lib] = true
				libs = append(libs, lib)
			}
		}
	}
	sort.Strings(libs)
	return libs
}

// CreationCode returns the creation bytecode with library addresses linked in.
func (a *Artifact) CreationCode(libraries map[string]common.Address) ([]byte, error) {
	if a.Bytecode.Empty() {
		return nil, fmt.Errorf("artifact %s has no creation bytecode", a.ContractName)
	}
	return link(a.Bytecode, libraries)
}

// DeployedCode returns the runtime bytecode with library addresses linked in.
func (a *Artifact) DeployedCode(libraries map[string]common.Address) ([]byte, error) {
	return link(a.DeployedBytecode, libraries)
}

// link substitutes every placeholder with the library address. Libraries are
// looked up by "source:Name" first, then by bare name.
func link(code BytecodeObject, libraries map[string]common.Address) ([]byte, error) {
	hexCode := []byte(code.hex())
	for source, refs := range code.LinkReferences {
		for lib, positions := range refs {
			addr, ok := libraries[source+":"+lib]
			if !ok {
				addr, ok = libraries[lib]
			}
			if !ok {
				return nil, fmt.Errorf("missing address for library %s", lib)
			}
			encoded := []byte(strings.ToLower(strings.TrimPrefix(addr.Hex(), "0x")))
			for _, pos := range positions {
				start, end := pos.Start*2, (pos.Start+pos.Length)*2
				if pos.Length != common.AddressLength || end > len(hexCode) {
					return nil, fmt.Errorf("bad link reference for %s at %d", lib, pos.Start)
				}
				copy(hexCode[start:end], encoded)
			}
		}
	}
	out, err := hexutil.Decode("0x" + string(hexCode))
	if err != nil {
		return nil, fmt.Errorf("failed to decode bytecode (unlinked libraries?): %w", err)
	}
	return out, nil
}
