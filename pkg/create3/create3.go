// Package create3 computes the addresses produced by a solmate-style CREATE3 factory.
package create3

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ProxyBytecode is the init code of the minimal proxy the factory CREATE2-deploys
// for every salt; the proxy then CREATEs the real contract with nonce 1.
var ProxyBytecode = common.FromHex("0x67363d3d37363d34f03d5260086018f3")

// ProxyBytecodeHash is keccak256(ProxyBytecode).
var ProxyBytecodeHash = crypto.Keccak256Hash(ProxyBytecode)

// FactorySalt is the salt the factory actually uses: keccak256(deployer ‖ salt).
func FactorySalt(deployer common.Address, salt [32]byte) [32]byte {
	return crypto.Keccak256Hash(deployer.Bytes(), salt[:])
}

// ProxyAddress returns the CREATE2 address of the intermediate proxy.
func ProxyAddress(factory, deployer common.Address, salt [32]byte) common.Address {
	return crypto.CreateAddress2(factory, FactorySalt(deployer, salt), ProxyBytecodeHash.Bytes())
}

// Address returns the address factory.getDeployed(deployer, salt) would report.
func Address(factory, deployer common.Address, salt [32]byte) common.Address {
	return crypto.CreateAddress(ProxyAddress(factory, deployer, salt), 1)
}
