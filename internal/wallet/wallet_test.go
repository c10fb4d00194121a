package wallet

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Hardhat's well-known development mnemonic, never funded on mainnet.
const testMnemonic = "test test test test test test test test test test test junk"

func TestFromMnemonicDefaultPath(t *testing.T) {
	signer, err := FromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	assert.Equal(t,
		common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		signer.Address())
}

func TestFromMnemonicSecondAccount(t *testing.T) {
	first, err := FromMnemonic(testMnemonic, DefaultDerivationPath)
	require.NoError(t, err)
	second, err := FromMnemonic(testMnemonic, "m/44'/60'/0'/0/1")
	require.NoError(t, err)
	assert.NotEqual(t, first.Address(), second.Address())
	assert.Equal(t,
		common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"),
		second.Address())
}

func TestFromMnemonicInvalid(t *testing.T) {
	_, err := FromMnemonic("", "")
	assert.Error(t, err)
	_, err = FromMnemonic("not a valid mnemonic at all", "")
	assert.Error(t, err)
	_, err = FromMnemonic(testMnemonic, "not-a-path")
	assert.Error(t, err)
}

func TestFromPrivateKey(t *testing.T) {
	// Hardhat's first development account, never funded on mainnet.
	signer, err := FromPrivateKey("0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
	require.NoError(t, err)
	assert.Equal(t,
		common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
		signer.Address())

	// The key is the first account of the test mnemonic; both routes
	// must agree.
	fromMnemonic, err := FromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	assert.Equal(t, fromMnemonic.Address(), signer.Address())

	_, err = FromPrivateKey("")
	assert.Error(t, err)
	_, err = FromPrivateKey("zz")
	assert.Error(t, err)
}

func TestSignTxRecoversSender(t *testing.T) {
	signer, err := FromMnemonic(testMnemonic, "")
	require.NoError(t, err)

	chainID := big.NewInt(8453)
	to := common.HexToAddress("0xC7e730797e1E4Cd988596a6BA4484a93A1211070")
	tx := ethtypes.NewTransaction(0, to, big.NewInt(1), 21000, big.NewInt(1), nil)

	signed, err := signer.SignTx(tx, chainID)
	require.NoError(t, err)

	from, err := ethtypes.Sender(ethtypes.NewEIP155Signer(chainID), signed)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), from)
}
