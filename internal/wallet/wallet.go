// Package wallet derives signing keys for transaction submission, from
// either a raw private key or a BIP-39 mnemonic.
package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	hdwallet "github.com/miguelmota/go-ethereum-hdwallet"
)

// DefaultDerivationPath is the standard first Ethereum account.
const DefaultDerivationPath = "m/44'/60'/0'/0/0"

// KeySigner signs transactions with an in-memory ECDSA key. It
// implements the chain client's Signer capability.
type KeySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// FromPrivateKey builds a signer from a hex-encoded private key, with
// or without the 0x prefix.
func FromPrivateKey(hexKey string) (*KeySigner, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	if hexKey == "" {
		return nil, fmt.Errorf("private key is required")
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return &KeySigner{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// FromMnemonic derives a signer from a BIP-39 mnemonic. An empty path
// uses the standard first account.
func FromMnemonic(mnemonic, derivationPath string) (*KeySigner, error) {
	mnemonic = strings.TrimSpace(mnemonic)
	if mnemonic == "" {
		return nil, fmt.Errorf("mnemonic is required")
	}
	if strings.TrimSpace(derivationPath) == "" {
		derivationPath = DefaultDerivationPath
	}

	w, err := hdwallet.NewFromMnemonic(mnemonic)
	if err != nil {
		return nil, fmt.Errorf("invalid mnemonic: %w", err)
	}
	path, err := hdwallet.ParseDerivationPath(derivationPath)
	if err != nil {
		return nil, fmt.Errorf("invalid derivation path: %w", err)
	}
	acct, err := w.Derive(path, false)
	if err != nil {
		return nil, fmt.Errorf("derive failed: %w", err)
	}
	key, err := w.PrivateKey(acct)
	if err != nil {
		return nil, fmt.Errorf("private key failed: %w", err)
	}
	return &KeySigner{key: key, address: acct.Address}, nil
}

// Address returns the account the signer controls.
func (s *KeySigner) Address() common.Address {
	return s.address
}

// SignTx signs tx for the given chain with EIP-155 replay protection.
func (s *KeySigner) SignTx(tx *ethtypes.Transaction, chainID *big.Int) (*ethtypes.Transaction, error) {
	return ethtypes.SignTx(tx, ethtypes.NewEIP155Signer(chainID), s.key)
}
