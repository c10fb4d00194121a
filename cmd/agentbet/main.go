package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/agentbet/gopredict/chain/client"
	"github.com/agentbet/gopredict/chain/types"
	"github.com/agentbet/gopredict/internal/config"
	"github.com/agentbet/gopredict/internal/wallet"
	"github.com/agentbet/gopredict/pkg/logger"
)

const usage = `agentbet <command> [flags]

Commands:
  register-agent   register a new agent (stake attached)
  sponsor          sponsor an existing agent
  agent            show one agent
  agents           list agents
  create-market    create a prediction market for an agent
  market           show one market
  markets          list markets
  odds             quote the projected payout for a bet
  bet              place a bet (amount attached)
  claim            claim winnings on a resolved market
  resolve          resolve a market (oracle accounts only)
  resolution       show a market's resolution state
  treasury         show protocol treasury totals

Run 'agentbet <command> -h' for command flags.
`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := logger.Init(logger.Config{Level: getenv("GOPREDICT_LOG_LEVEL", "warn")}); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}

	cmd, args := os.Args[1], os.Args[2:]
	var err error
	switch cmd {
	case "register-agent":
		err = cmdRegisterAgent(args)
	case "sponsor":
		err = cmdSponsor(args)
	case "agent":
		err = cmdAgent(args)
	case "agents":
		err = cmdAgents(args)
	case "create-market":
		err = cmdCreateMarket(args)
	case "market":
		err = cmdMarket(args)
	case "markets":
		err = cmdMarkets(args)
	case "odds":
		err = cmdOdds(args)
	case "bet":
		err = cmdBet(args)
	case "claim":
		err = cmdClaim(args)
	case "resolve":
		err = cmdResolve(args)
	case "resolution":
		err = cmdResolution(args)
	case "treasury":
		err = cmdTreasury(args)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", cmd, err)
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// newChainClient builds the client from env configuration. Commands
// that submit transactions require a key; reads work without one.
func newChainClient() (*client.Client, error) {
	cfg, err := config.Load(os.Getenv("GOPREDICT_CONFIG"))
	if err != nil {
		return nil, err
	}

	var signer client.Signer
	switch {
	case cfg.Wallet.PrivateKey != "":
		signer, err = wallet.FromPrivateKey(cfg.Wallet.PrivateKey)
	case cfg.Wallet.Mnemonic != "":
		signer, err = wallet.FromMnemonic(cfg.Wallet.Mnemonic, cfg.Wallet.DerivationPath)
	}
	if err != nil {
		return nil, err
	}

	return client.New(client.Options{
		RPCURL:  cfg.RPCURL,
		ChainID: types.Chain(cfg.ChainID),
		Signer:  signer,
	})
}

// awaitAndReport waits for the terminal state and prints the outcome.
func awaitAndReport(handle *client.TransactionHandle, timeout time.Duration) error {
	fmt.Printf("submitted: %s\n", handle.Hash().Hex())

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	status, err := handle.Wait(ctx)
	if err != nil {
		fmt.Printf("still pending after %s; check later with the hash above\n", timeout)
		return nil
	}
	if status.Err != nil {
		return status.Err
	}
	fmt.Printf("%s: %s\n", status.State, status.Hash.Hex())
	return nil
}

func cmdRegisterAgent(args []string) error {
	fs := flag.NewFlagSet("register-agent", flag.ExitOnError)
	name := fs.String("name", "", "agent name")
	metadataURI := fs.String("metadata-uri", "", "agent metadata URI (ipfs:// or https://)")
	stake := fs.String("stake", types.MinAgentStake, "initial stake in ETH")
	wait := fs.Duration("wait", 3*time.Minute, "how long to wait for confirmation")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("-name is required")
	}

	c, err := newChainClient()
	if err != nil {
		return err
	}
	defer c.Close()

	handle, err := c.AgentRegistry.RegisterAgent(context.Background(), *name, *metadataURI, *stake)
	if err != nil {
		return err
	}
	return awaitAndReport(handle, *wait)
}

func cmdSponsor(args []string) error {
	fs := flag.NewFlagSet("sponsor", flag.ExitOnError)
	agentID := fs.Uint64("agent", 0, "agent id")
	amount := fs.String("amount", "", "sponsorship amount in ETH")
	wait := fs.Duration("wait", 3*time.Minute, "how long to wait for confirmation")
	_ = fs.Parse(args)

	if *amount == "" {
		return fmt.Errorf("-amount is required")
	}

	c, err := newChainClient()
	if err != nil {
		return err
	}
	defer c.Close()

	handle, err := c.AgentRegistry.SponsorAgent(context.Background(), *agentID, *amount)
	if err != nil {
		return err
	}
	return awaitAndReport(handle, *wait)
}

func cmdAgent(args []string) error {
	fs := flag.NewFlagSet("agent", flag.ExitOnError)
	agentID := fs.Uint64("id", 0, "agent id")
	_ = fs.Parse(args)

	c, err := newChainClient()
	if err != nil {
		return err
	}
	defer c.Close()

	agent, err := c.AgentRegistry.GetAgent(context.Background(), *agentID)
	if err != nil {
		return err
	}
	printAgent(agent)
	return nil
}

func cmdAgents(args []string) error {
	fs := flag.NewFlagSet("agents", flag.ExitOnError)
	limit := fs.Int("limit", 20, "max agents to list")
	_ = fs.Parse(args)

	c, err := newChainClient()
	if err != nil {
		return err
	}
	defer c.Close()

	agents, err := c.AgentRegistry.ListAgents(context.Background(), *limit)
	if err != nil {
		return err
	}
	for _, agent := range agents {
		printAgent(agent)
		fmt.Println()
	}
	return nil
}

func printAgent(agent *types.Agent) {
	active := "inactive"
	if agent.IsActive {
		active = "active"
	}
	fmt.Printf("agent #%s %q (%s)\n", agent.Id, agent.Name, active)
	fmt.Printf("  creator:   %s\n", agent.Creator.Hex())
	fmt.Printf("  staked:    %s ETH\n", client.ToDisplayUnits(agent.TotalStaked))
	fmt.Printf("  sponsors:  %s  reputation: %s\n", agent.SponsorCount, agent.Reputation)
	if agent.MetadataURI != "" {
		fmt.Printf("  metadata:  %s\n", agent.MetadataURI)
	}
}

func cmdCreateMarket(args []string) error {
	fs := flag.NewFlagSet("create-market", flag.ExitOnError)
	agentID := fs.Uint64("agent", 0, "agent id the market belongs to")
	question := fs.String("question", "", "market question")
	description := fs.String("description", "", "market description")
	category := fs.Uint("category", uint(types.CategoryOther), "category (0=crypto 1=sports 2=politics 3=weather 4=technology 5=other)")
	outcomes := fs.String("outcomes", "Yes,No", "comma-separated outcome labels")
	days := fs.Uint64("days", 7, "betting window in days")
	wait := fs.Duration("wait", 3*time.Minute, "how long to wait for confirmation")
	_ = fs.Parse(args)

	if *question == "" {
		return fmt.Errorf("-question is required")
	}

	c, err := newChainClient()
	if err != nil {
		return err
	}
	defer c.Close()

	handle, err := c.MarketFactory.CreateMarket(context.Background(), client.CreateMarketParams{
		AgentID:      *agentID,
		Question:     *question,
		Description:  *description,
		Category:     types.Category(*category),
		Outcomes:     strings.Split(*outcomes, ","),
		DurationDays: *days,
	})
	if err != nil {
		return err
	}
	return awaitAndReport(handle, *wait)
}

func cmdMarket(args []string) error {
	fs := flag.NewFlagSet("market", flag.ExitOnError)
	marketID := fs.Uint64("id", 0, "market id")
	_ = fs.Parse(args)

	c, err := newChainClient()
	if err != nil {
		return err
	}
	defer c.Close()

	market, err := c.MarketFactory.GetMarket(context.Background(), *marketID)
	if err != nil {
		return err
	}
	printMarket(market)
	return nil
}

func cmdMarkets(args []string) error {
	fs := flag.NewFlagSet("markets", flag.ExitOnError)
	limit := fs.Int("limit", 20, "max markets to list")
	_ = fs.Parse(args)

	c, err := newChainClient()
	if err != nil {
		return err
	}
	defer c.Close()

	markets, err := c.MarketFactory.ListMarkets(context.Background(), *limit)
	if err != nil {
		return err
	}
	for _, market := range markets {
		printMarket(market)
		fmt.Println()
	}
	return nil
}

func printMarket(market *types.Market) {
	state := "open"
	if market.IsResolved {
		state = "resolved, outcome " + market.WinningOutcome.String()
	} else if market.Expired(time.Now()) {
		state = "awaiting resolution"
	}
	fmt.Printf("market #%s [%s] %s\n", market.Id, types.Category(market.Category).Label(), state)
	fmt.Printf("  %s\n", market.Question)
	fmt.Printf("  agent: %s  outcomes: %s  volume: %s ETH\n",
		market.AgentId, market.OutcomeCount, client.ToDisplayUnits(market.TotalVolume))
	deadline := time.Unix(market.Deadline.Int64(), 0).UTC()
	fmt.Printf("  deadline: %s\n", deadline.Format(time.RFC3339))
}

func cmdOdds(args []string) error {
	fs := flag.NewFlagSet("odds", flag.ExitOnError)
	marketID := fs.Uint64("market", 0, "market id")
	outcome := fs.Uint64("outcome", 0, "outcome index")
	amount := fs.String("amount", "", "bet amount in ETH")
	_ = fs.Parse(args)

	if *amount == "" {
		return fmt.Errorf("-amount is required")
	}

	c, err := newChainClient()
	if err != nil {
		return err
	}
	defer c.Close()

	payout, err := c.BettingEngine.GetOdds(context.Background(), *marketID, *outcome, *amount)
	if err != nil {
		return err
	}
	fmt.Printf("%s ETH on outcome %d pays out %s ETH if it wins\n",
		*amount, *outcome, client.ToDisplayUnits(payout))
	return nil
}

func cmdBet(args []string) error {
	fs := flag.NewFlagSet("bet", flag.ExitOnError)
	marketID := fs.Uint64("market", 0, "market id")
	outcome := fs.Uint64("outcome", 0, "outcome index")
	amount := fs.String("amount", "", "bet amount in ETH")
	minPayout := fs.String("min-payout", "", "minimum acceptable payout in ETH (slippage floor)")
	wait := fs.Duration("wait", 3*time.Minute, "how long to wait for confirmation")
	_ = fs.Parse(args)

	if *amount == "" {
		return fmt.Errorf("-amount is required")
	}

	c, err := newChainClient()
	if err != nil {
		return err
	}
	defer c.Close()

	handle, err := c.BettingEngine.PlaceBet(context.Background(), *marketID, *outcome, *amount, *minPayout)
	if err != nil {
		return err
	}
	return awaitAndReport(handle, *wait)
}

func cmdClaim(args []string) error {
	fs := flag.NewFlagSet("claim", flag.ExitOnError)
	marketID := fs.Uint64("market", 0, "market id")
	wait := fs.Duration("wait", 3*time.Minute, "how long to wait for confirmation")
	_ = fs.Parse(args)

	c, err := newChainClient()
	if err != nil {
		return err
	}
	defer c.Close()

	handle, err := c.BettingEngine.ClaimWinnings(context.Background(), *marketID)
	if err != nil {
		return err
	}
	return awaitAndReport(handle, *wait)
}

func cmdResolve(args []string) error {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	marketID := fs.Uint64("market", 0, "market id")
	outcome := fs.Uint64("outcome", 0, "winning outcome index")
	wait := fs.Duration("wait", 3*time.Minute, "how long to wait for confirmation")
	_ = fs.Parse(args)

	c, err := newChainClient()
	if err != nil {
		return err
	}
	defer c.Close()

	handle, err := c.OracleResolver.ResolveMarket(context.Background(), *marketID, *outcome)
	if err != nil {
		return err
	}
	return awaitAndReport(handle, *wait)
}

func cmdResolution(args []string) error {
	fs := flag.NewFlagSet("resolution", flag.ExitOnError)
	marketID := fs.Uint64("market", 0, "market id")
	_ = fs.Parse(args)

	c, err := newChainClient()
	if err != nil {
		return err
	}
	defer c.Close()

	res, err := c.OracleResolver.GetResolution(context.Background(), *marketID)
	if err != nil {
		return err
	}
	if !res.Resolved {
		fmt.Printf("market #%d is not resolved yet\n", *marketID)
		return nil
	}
	resolvedAt := time.Unix(res.ResolvedAt.Int64(), 0).UTC()
	fmt.Printf("market #%s resolved: winning outcome %s at %s\n",
		res.MarketId, res.WinningOutcome, resolvedAt.Format(time.RFC3339))
	return nil
}

func cmdTreasury(args []string) error {
	fs := flag.NewFlagSet("treasury", flag.ExitOnError)
	_ = fs.Parse(args)

	c, err := newChainClient()
	if err != nil {
		return err
	}
	defer c.Close()

	totals, err := c.Treasury.Totals(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("protocol treasury:  %s ETH\n", client.ToDisplayUnits(totals.ProtocolTreasury))
	fmt.Printf("total distributed:  %s ETH\n", client.ToDisplayUnits(totals.TotalDistributed))
	return nil
}
