package neutron

import (
	"context"
	"fmt"

	"cosmossdk.io/math"

	"github.com/v26-solutions/cosmwasm-xtask/pkg/cosmoscli"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/keys"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/patch"
)

// IBC denom voucher constants shared by both local chains.
const (
	IBCAtomDenom = "uibcatom"
	IBCUsdcDenom = "uibcusdc"

	// GenesisAllocation funds every well-known account in each of the
	// chain's denoms.
	GenesisAllocation = 100_000_000_000_000

	genesisMoniker = "test"
)

// Deterministic accounts every local chain is seeded with. Addresses are
// stable across runs, so contract and relayer configs can hardcode them.
var wellKnownAccounts = []struct {
	Name     string
	Mnemonic string
}{
	{"local1", "banner spread envelope side kite person disagree path silver will brother under couch edit food venture squirrel civil budget number acquire point work mass"},
	{"local2", "veteran try aware erosion drink dance decade comic dawn museum release episode original list ability owner size tuition surface ceiling depth seminar capable only"},
	{"local3", "obscure canal because tomorrow tribe sibling describe satoshi kiwi upgrade bless empty math trend erosion oblige donate label birth chronic hazard ensure wreck shine"},
	{"val1", "clock post desk civil pottery foster expand merit dash seminar song memory figure uniform spice circle try happy obvious trash crime hybrid hood cushion"},
	{"val2", "angry twist harsh drastic left brass behave host shove marriage fall update business leg direct reward object ugly security warm tuna model broccoli choice"},
	{"rly1", "alley afraid soup fall idea toss can goose become valve initial strong forward bright dish figure check leopard decide warfare hub unusual join cart"},
	{"rly2", "record gift you once hip style during joke field prize dust unique length more pencil transfer quit train device arrive energy sort steak upset"},
}

const (
	relayerMnemonicNeutron = 5 // rly1
	relayerMnemonicGaia    = 6 // rly2
	gaiaValidator          = 3 // val1
)

// initParams parameterizes a chain's genesis so the two local chains can
// share one bootstrap while living on disjoint port blocks.
type initParams struct {
	ChainID     string
	StakeDenom  string
	P2PPort     int
	RPCPort     int
	RESTPort    int
	RosettaPort int
}

// initChain creates a chain home from scratch: genesis, the seven
// well-known accounts funded in the stake and IBC denoms, and the config
// edits that make a localnet responsive (1s block timings, full tx
// indexing, API enabled, chain-specific ports and denoms).
func initChain(ctx context.Context, cli func() *cosmoscli.Cmd, homeDir string, p initParams) ([]keys.Key, error) {
	if err := cli().InitChain(ctx, genesisMoniker, p.ChainID); err != nil {
		return nil, ErrInitialize.Wrap(err.Error())
	}

	allocation := math.NewInt(GenesisAllocation)
	recovered := make([]keys.Key, 0, len(wellKnownAccounts))
	for _, account := range wellKnownAccounts {
		key, err := cli().RecoverKey(ctx, account.Name, account.Mnemonic, keys.BackendTest)
		if err != nil {
			return nil, ErrInitialize.Wrap(err.Error())
		}

		err = cli().AddGenesisAccount(ctx, key,
			cosmoscli.NewCoin(allocation, p.StakeDenom),
			cosmoscli.NewCoin(allocation, IBCAtomDenom),
			cosmoscli.NewCoin(allocation, IBCUsdcDenom),
		)
		if err != nil {
			return nil, ErrInitialize.Wrap(err.Error())
		}

		recovered = append(recovered, key)
	}

	err := patch.File(homeDir+"/config/config.toml",
		patch.Replacement{Old: `timeout_commit = "5s"`, New: `timeout_commit = "1s"`},
		patch.Replacement{Old: `timeout_propose = "3s"`, New: `timeout_propose = "1s"`},
		patch.Replacement{Old: "index_all_keys = false", New: "index_all_keys = true"},
		patch.Replacement{Old: "tcp://0.0.0.0:26656", New: fmt.Sprintf("tcp://127.0.0.1:%d", p.P2PPort)},
		patch.Replacement{Old: "tcp://127.0.0.1:26657", New: fmt.Sprintf("tcp://127.0.0.1:%d", p.RPCPort)},
	)
	if err != nil {
		return nil, ErrInitialize.Wrap(err.Error())
	}

	err = patch.File(homeDir+"/config/app.toml",
		patch.Replacement{Old: "enable = false", New: "enable = true"},
		patch.Replacement{Old: "swagger = false", New: "swagger = true"},
		patch.Replacement{Old: "prometheus-retention-time = 0", New: "prometheus-retention-time = 1000"},
		patch.Replacement{
			Old: `minimum-gas-prices = ""`,
			New: fmt.Sprintf(`minimum-gas-prices = "0.0025%s,0.0025%s"`, p.StakeDenom, ibcTransferVoucher),
		},
		patch.Replacement{Old: "tcp://0.0.0.0:1317", New: fmt.Sprintf("tcp://127.0.0.1:%d", p.RESTPort)},
		patch.Replacement{Old: `address = ":8080"`, New: fmt.Sprintf(`address = ":%d"`, p.RosettaPort)},
	)
	if err != nil {
		return nil, ErrInitialize.Wrap(err.Error())
	}

	err = patch.File(homeDir+"/config/genesis.json",
		patch.Replacement{Old: `"denom": "stake"`, New: fmt.Sprintf(`"denom": %q`, p.StakeDenom)},
		patch.Replacement{Old: `"mint_denom": "stake"`, New: fmt.Sprintf(`"mint_denom": %q`, p.StakeDenom)},
		patch.Replacement{Old: `"bond_denom": "stake"`, New: fmt.Sprintf(`"bond_denom": %q`, p.StakeDenom)},
	)
	if err != nil {
		return nil, ErrInitialize.Wrap(err.Error())
	}

	return recovered, nil
}

// ibcTransferVoucher is the IBC denom hash of the transfer-channel voucher
// both chains price gas in alongside their native denom.
const ibcTransferVoucher = "ibc/27394FB092D2ECCD56123C74F36E4C1F926001CEADA9CA97EA622B25F41E5EB2"
