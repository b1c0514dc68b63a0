package cmd

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/v26-solutions/cosmwasm-xtask/pkg/contract"
	"github.com/v26-solutions/cosmwasm-xtask/pkg/network"
)

const (
	demoWasmPath = "examples/cw20_base.wasm"
	demoLabel    = "demo_cw20"
	demoMint     = "1000000000000"
)

// cw20 message shapes, mirroring the cw20-base contract schema.

type cw20MinterResponse struct {
	Minter string  `json:"minter"`
	Cap    *string `json:"cap"`
}

type cw20InstantiateMsg struct {
	Name            string              `json:"name"`
	Symbol          string              `json:"symbol"`
	Decimals        uint8               `json:"decimals"`
	InitialBalances []struct{}          `json:"initial_balances"`
	Mint            *cw20MinterResponse `json:"mint,omitempty"`
	Marketing       *struct{}           `json:"marketing,omitempty"`
}

type cw20MintMsg struct {
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

type cw20ExecuteMsg struct {
	Mint *cw20MintMsg `json:"mint,omitempty"`
}

type cw20BalanceQuery struct {
	Address string `json:"address"`
}

type cw20QueryMsg struct {
	Balance *cw20BalanceQuery `json:"balance,omitempty"`
}

type cw20BalanceResponse struct {
	Balance string `json:"balance"`
}

func deployCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the demo cw20 token and mint a balance",
		Long: `Store ` + demoWasmPath + ` on the selected network, instantiate
it with the first funded key as minter, mint tokens to that key and read
the balance back. Exercises the whole store/instantiate/execute/query
path end to end.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()

			net, err := initNetwork(cmd.Context(), logger)
			if err != nil {
				return err
			}
			return deployDemo(cmd.Context(), logger, net)
		},
	}
}

func deployDemo(ctx context.Context, logger zerolog.Logger, net network.Network) error {
	signer, err := network.Signer(net)
	if err != nil {
		return err
	}

	logger.Info().Str("wasm", demoWasmPath).Msg("storing contract bytecode")
	codeID, err := contract.Store(demoWasmPath).Send(ctx, net, signer)
	if err != nil {
		return err
	}
	logger.Info().Stringer("code_id", codeID).Msg("stored cw20 base")

	addr, err := contract.Instantiate(codeID, demoLabel, cw20InstantiateMsg{
		Name:            "Demo",
		Symbol:          "DEMO",
		Decimals:        6,
		InitialBalances: []struct{}{},
		Mint:            &cw20MinterResponse{Minter: signer.Address},
	}).Send(ctx, net, signer)
	if err != nil {
		return err
	}
	logger.Info().Stringer("contract", addr).Msg("instantiated cw20 DEMO")

	logger.Info().Str("recipient", signer.Address).Str("amount", demoMint).Msg("minting")
	_, err = contract.Execute(addr, cw20ExecuteMsg{
		Mint: &cw20MintMsg{Recipient: signer.Address, Amount: demoMint},
	}).Send(ctx, net, signer)
	if err != nil {
		return err
	}

	balance, err := contract.Query[cw20BalanceResponse](ctx, net, addr, cw20QueryMsg{
		Balance: &cw20BalanceQuery{Address: signer.Address},
	})
	if err != nil {
		return err
	}

	logger.Info().
		Str("address", signer.Address).
		Str("balance", balance.Balance).
		Msg("uDEMO balance")
	return nil
}
