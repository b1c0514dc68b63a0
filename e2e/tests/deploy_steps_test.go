//go:build e2e

package e2e

import (
	"strconv"

	"github.com/stretchr/testify/require"

	"github.com/v26-solutions/cosmwasm-xtask/pkg/contract"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/cosmoscli"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/network"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/network/neutron"
)

// cw20_base.wasm is checked in under examples/ at the repository root.
const cw20WasmPath = "../../examples/cw20_base.wasm"

type cw20Minter struct {
	Minter string `json:"minter"`
}

type cw20Instantiate struct {
	Name            string      `json:"name"`
	Symbol          string      `json:"symbol"`
	Decimals        uint8       `json:"decimals"`
	InitialBalances []struct{}  `json:"initial_balances"`
	Mint            *cw20Minter `json:"mint,omitempty"`
}

type cw20Mint struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

type cw20Execute struct {
	Mint *cw20Mint `json:"mint,omitempty"`
}

type cw20BalanceOf struct {
	Address string `json:"address"`
}

type cw20Query struct {
	Balance *cw20BalanceOf `json:"balance,omitempty"`
}

type cw20Balance struct {
	Balance string `json:"balance"`
}

func (s *suite) ALocalNetworkIsInitialized() {
	net, err := neutron.InitializeLocal(s.ctx, neutron.WithLogger(s.logger))
	require.NoError(s, err)

	signer, err := network.Signer(net)
	require.NoError(s, err)

	s.net = net
	s.signer = signer
}

func (s *suite) TheUserStoresTheCw20BaseBytecode() {
	codeID, err := contract.Store(cw20WasmPath).Send(s.ctx, s.net, s.signer)
	require.NoError(s, err)
	require.NotZero(s, codeID)

	s.setState("code_id", codeID)
}

func (s *suite) TheUserInstantiatesATokenNamedWithSymbol(name, symbol string) {
	codeID := s.getState("code_id").(cosmoscli.CodeID)

	addr, err := contract.Instantiate(codeID, "demo_cw20", cw20Instantiate{
		Name:            name,
		Symbol:          symbol,
		Decimals:        6,
		InitialBalances: []struct{}{},
		Mint:            &cw20Minter{Minter: s.signer.Address},
	}).Send(s.ctx, s.net, s.signer)
	require.NoError(s, err)
	require.NotEmpty(s, addr)

	s.setState("contract", addr)
}

func (s *suite) TheUserMintsTokensToTheSigner(amount int64) {
	addr := s.getState("contract").(cosmoscli.Contract)

	_, err := contract.Execute(addr, cw20Execute{
		Mint: &cw20Mint{
			Recipient: s.signer.Address,
			Amount:    strconv.FormatInt(amount, 10),
		},
	}).Send(s.ctx, s.net, s.signer)
	require.NoError(s, err)
}

func (s *suite) TheSignerTokenBalanceShouldBe(amount int64) {
	addr := s.getState("contract").(cosmoscli.Contract)

	balance, err := contract.Query[cw20Balance](s.ctx, s.net, addr, cw20Query{
		Balance: &cw20BalanceOf{Address: s.signer.Address},
	})
	require.NoError(s, err)
	require.Equal(s, strconv.FormatInt(amount, 10), balance.Balance)
}
