package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gmx-io/gmx-interface-sub018/chains"
	"github.com/gmx-io/gmx-interface-sub018/chains/arbitrum"
	"github.com/gmx-io/gmx-interface-sub018/chains/avalanche"
	"github.com/gmx-io/gmx-interface-sub018/cmd/console/config"
	"github.com/gmx-io/gmx-interface-sub018/engine"
	"github.com/gmx-io/gmx-interface-sub018/markets"
	marketsgraph "github.com/gmx-io/gmx-interface-sub018/markets/graph"
	"github.com/gmx-io/gmx-interface-sub018/numeric"
	"github.com/gmx-io/gmx-interface-sub018/streams/jsonrpc/client"
	"github.com/gmx-io/gmx-interface-sub018/swap"
	"github.com/gmx-io/gmx-interface-sub018/trade"
)

// --- VISUAL CONSTANTS ---
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
	Gray   = "\033[37m"

	DefaultClientSnapshotBufferSize = 100
)

// header prints a styled section header
func header(title string) {
	fmt.Println("\n" + Bold + Cyan + ":: " + title + " ::" + Reset)
}

// snapshotView bundles a snapshot with its derived lookup structures so the
// console never mixes markets and graph from different blocks.
type snapshotView struct {
	snapshot *engine.Snapshot
	tokens   markets.TokensData
	markets  markets.MarketsData
	graph    *marketsgraph.MarketsGraph
}

// SafeSnapshot is a thread-safe container for the latest snapshot view.
type SafeSnapshot struct {
	mu   sync.RWMutex
	view *snapshotView
}

func (s *SafeSnapshot) Update(chainCtx *chains.ChainContext, snapshot *engine.Snapshot) {
	tokens, mkts := snapshot.Index()
	view := &snapshotView{
		snapshot: snapshot,
		tokens:   tokens,
		markets:  mkts,
		graph:    marketsgraph.Build(chainCtx, mkts),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = view
}

func (s *SafeSnapshot) Get() *snapshotView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

func main() {
	// --- 1. SETUP LOGGING (To File) ---
	logFile, err := os.OpenFile("console.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		panic(fmt.Sprintf("Failed to open log file: %v", err))
	}
	defer logFile.Close()

	rootLogger := slog.New(slog.NewJSONHandler(logFile, nil))

	closeApp := func() {
		fmt.Println("\n" + Red + "Fatal error occurred. Check console.log for details." + Reset)
		os.Exit(1)
	}

	// --- 2. CONFIG & CONTEXT ---
	cfg, err := loadConfig()
	if err != nil {
		rootLogger.Error("Failed to load configuration", "error", err)
		closeApp()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- 3. CHAIN CONTEXT ---
	var chainCtx *chains.ChainContext
	switch cfg.ChainID {
	case arbitrum.ChainID:
		chainCtx = arbitrum.NewContext()
	case avalanche.ChainID:
		chainCtx = avalanche.NewContext()
	default:
		rootLogger.Error(fmt.Sprintf("No chain context for chain with ID %d", cfg.ChainID))
		closeApp()
	}

	safeSnapshot := &SafeSnapshot{}

	// --- 4. SNAPSHOT SOURCE ---
	if cfg.SnapshotFile != "" {
		snapshot, err := loadSnapshotFile(cfg.SnapshotFile)
		if err != nil {
			rootLogger.Error("Failed to load snapshot fixture", "path", cfg.SnapshotFile, "error", err)
			closeApp()
		}
		safeSnapshot.Update(chainCtx, snapshot)

		fmt.Println(Green + "Loaded snapshot fixture " + cfg.SnapshotFile + Reset)
		fmt.Println("Logs are being written to 'console.log'")
		go runConsole(ctx, chainCtx, cfg, safeSnapshot, rootLogger)

		<-ctx.Done()
		fmt.Println("\n" + Yellow + "Shutting down..." + Reset)
		return
	}

	streamClient, err := client.NewClient(
		ctx,
		client.Config{
			URL:        cfg.StateStreamURL,
			Logger:     rootLogger.With("component", "jsonrpc-client"),
			BufferSize: DefaultClientSnapshotBufferSize,
		},
	)
	if err != nil {
		rootLogger.Error("Failed to initialize Client", "chain_id", cfg.ChainID, "error", err)
		closeApp()
	}

	// --- 5. START CONSOLE & SNAPSHOT LOOP ---
	fmt.Println(Green + "Starting market console..." + Reset)
	fmt.Println("Logs are being written to 'console.log'")
	go runConsole(ctx, chainCtx, cfg, safeSnapshot, rootLogger)

	for {
		select {
		case snapshot := <-streamClient.Snapshots():
			safeSnapshot.Update(chainCtx, snapshot)

		case err := <-streamClient.Err():
			rootLogger.Error("Fatal client error", "error", err)
			closeApp()

		case <-ctx.Done():
			fmt.Println("\n" + Yellow + "Shutting down..." + Reset)
			return
		}
	}
}

// runConsole handles user input and display.
func runConsole(ctx context.Context, chainCtx *chains.ChainContext, cfg *config.ConsoleConfig, safeSnapshot *SafeSnapshot, logger *slog.Logger) {
	reader := bufio.NewReader(os.Stdin)
	time.Sleep(500 * time.Millisecond)

	for {
		if ctx.Err() != nil {
			return
		}

		printMenu()

		fmt.Print(Bold + "Enter selection: " + Reset)
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("Error reading input:", err)
			continue
		}
		input = strings.TrimSpace(input)

		handleCommand(input, chainCtx, cfg, safeSnapshot, reader, logger)

		fmt.Println("\n" + Gray + "[Press Enter to continue]" + Reset)
		reader.ReadString('\n')
	}
}

func printMenu() {
	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(Bold + "MARKET CONSOLE" + Reset + Gray + " | v0.1.0" + Reset)
	fmt.Println(Gray + "-----------------------------------" + Reset)
	fmt.Printf(" %s1.%s Current Block Info\n", Cyan, Reset)
	fmt.Printf(" %s2.%s Market Summary\n", Cyan, Reset)
	fmt.Printf(" %s3.%s Token Details %s(by Address)%s\n", Cyan, Reset, Gray, Reset)
	fmt.Printf(" %s4.%s Quote Swap    %s(Path Router)%s\n", Cyan, Reset, Gray, Reset)
	fmt.Println(Gray + "-----------------------------------" + Reset)
	fmt.Printf(" %sh.%s Help / Architecture\n", Yellow, Reset)
	fmt.Printf(" %sq.%s Quit\n", Red, Reset)
	fmt.Println("")
}

func handleCommand(input string, chainCtx *chains.ChainContext, cfg *config.ConsoleConfig, safeSnapshot *SafeSnapshot, reader *bufio.Reader, logger *slog.Logger) {
	view := safeSnapshot.Get()

	// Allow help and quit even if no snapshot arrived yet
	if view == nil && input != "q" && input != "h" {
		fmt.Println("\n" + Yellow + "[INFO] Waiting for first snapshot... (Check connection/logs)" + Reset)
		return
	}

	switch input {
	case "1":
		printBlockInfo(view)
	case "2":
		printMarketSummary(view)
	case "3":
		printTokenDetails(view, chainCtx, reader)
	case "4":
		quoteSwap(view, chainCtx, cfg, reader, logger)
	case "h":
		printHelp()
	case "q":
		exitConsole()
	default:
		fmt.Println(Red + "Unknown command." + Reset)
	}
}

// --- COMMAND HANDLERS ---

func printHelp() {
	fmt.Print("\033[H\033[2J")

	header("MARKET SNAPSHOT ARCHITECTURE")
	fmt.Println(Bold + "Concept: Block-Synchronized Market State" + Reset)
	fmt.Println("Each snapshot carries the complete token and market view at one block,")
	fmt.Println("so every quote is computed against a consistent state.")
	fmt.Println("")

	fmt.Println(Bold + "1. THE DATA STRUCTURE" + Reset)
	fmt.Println("   The root object is " + Cyan + "Snapshot" + Reset + ", which contains:")
	fmt.Println("   - " + Yellow + "Block" + Reset + ": Essential context (Number, Timestamp).")
	fmt.Println("   - " + Yellow + "Tokens" + Reset + ": Addresses, decimals and two-sided oracle prices.")
	fmt.Println("   - " + Yellow + "Markets" + Reset + ": Pool balances, open interest and fee factors.")
	fmt.Println("")

	fmt.Println(Bold + "2. THE PRIMITIVES" + Reset)
	fmt.Printf("   A. %sMarkets Graph%s\n", Cyan, Reset)
	fmt.Println("      - Collateral tokens are nodes; each market is an edge between")
	fmt.Println("        its long and short side.")
	fmt.Println("      - Answers: 'Which paths connect WETH -> USDC?'")
	fmt.Println("")
	fmt.Printf("   B. %sEstimator + Router%s\n", Cyan, Reset)
	fmt.Println("      - The estimator replicates the pool pricing per hop:")
	fmt.Println("        fees, rebalance price impact and impact-pool caps.")
	fmt.Println("      - The router scores every candidate path and picks the best")
	fmt.Println("        output under the selected ordering policy.")
	fmt.Println("")

	fmt.Println(Gray + "---------------------------------------------------------------" + Reset)
	fmt.Println(Bold + "PURPOSE OF THIS CONSOLE" + Reset)
	fmt.Println("This tool helps you explore a snapshot and sanity-check quotes.")
	fmt.Println(Green + "Goal: " + Reset + "Use these commands as examples to build your own")
	fmt.Println("order flows on top of the calculators.")
	fmt.Println(Gray + "---------------------------------------------------------------" + Reset)
}

func printBlockInfo(view *snapshotView) {
	snapshot := view.snapshot
	ts := time.Unix(int64(snapshot.Block.Timestamp), 0).Format("15:04:05")

	fmt.Printf("\n%sSTATUS  ::%s Block %s#%s%s | Chain %s%d%s | Time %s%s%s\n",
		Green, Reset,
		Bold, snapshot.Block.Number, Reset,
		Bold, snapshot.ChainID, Reset,
		Bold, ts, Reset,
	)

	if snapshot.HasErrors() {
		fmt.Println(Yellow + "[WARN] Snapshot sources reported errors:" + Reset)
		for source, msg := range snapshot.Errors {
			fmt.Printf("  %s%-10s%s %s\n", Gray, source+":", Reset, msg)
		}
	}
}

func printMarketSummary(view *snapshotView) {
	header("MARKET SUMMARY")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 4, ' ', 0)
	fmt.Fprintln(w, "MARKET\tLONG POOL (USD)\tSHORT POOL (USD)\tSTATUS\t")
	fmt.Fprintln(w, "------\t---------------\t----------------\t------\t")

	skipped := 0
	for _, m := range view.snapshot.Markets {
		name := m.Name
		if name == "" {
			name = m.MarketTokenAddress.Hex()
		}
		if len(name) > 25 {
			name = name[:22] + "..."
		}

		if !m.IsHydrated() {
			skipped++
			fmt.Fprintf(w, "%s\t-\t-\t%s\t\n", name, Red+"UNRESOLVED"+Reset)
			continue
		}

		status := Green + "OK" + Reset
		if m.IsSpotOnly {
			status = Yellow + "SPOT ONLY" + Reset
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
			name,
			humanUsd(m.MidPoolUsd(true)),
			humanUsd(m.MidPoolUsd(false)),
			status,
		)
	}
	w.Flush()

	fmt.Printf("\n%sMarkets: %d (unresolved: %d)%s\n", Bold, len(view.snapshot.Markets), skipped, Reset)
}

func printTokenDetails(view *snapshotView, chainCtx *chains.ChainContext, reader *bufio.Reader) {
	fmt.Print("\n" + Bold + "[Token Details] Enter Token Address (Hex): " + Reset)
	token, err := readAndValidateToken(view, chainCtx, reader)
	if err != nil {
		fmt.Println(Red + err.Error() + Reset)
		return
	}

	header("TOKEN DETAILS")
	fmt.Printf(" %s%-10s%s %s\n", Gray, "Symbol:", Reset, token.Symbol)
	fmt.Printf(" %s%-10s%s %s\n", Gray, "Address:", Reset, token.Address.Hex())
	fmt.Printf(" %s%-10s%s %d\n", Gray, "Decimals:", Reset, token.Decimals)
	fmt.Printf(" %s%-10s%s %s\n", Gray, "Min Price:", Reset, humanUsdPrice(token))
	fmt.Printf(" %s%-10s%s synthetic=%v wrapped=%v\n", Gray, "Flags:", Reset, token.IsSynthetic, token.IsWrapped)

	reachable := view.graph.ReachableTokens(token.Address)
	if len(reachable) == 0 {
		fmt.Println(Yellow + "\n[INFO] Token is not routable in this snapshot." + Reset)
		return
	}

	fmt.Printf("\n%sRoutable against:%s ", Bold, Reset)
	symbols := make([]string, 0, len(reachable))
	for _, addr := range reachable {
		symbols = append(symbols, symbolFor(view, addr))
	}
	fmt.Println(strings.Join(symbols, ", "))
}

func quoteSwap(view *snapshotView, chainCtx *chains.ChainContext, cfg *config.ConsoleConfig, reader *bufio.Reader, logger *slog.Logger) {
	header("SWAP QUOTE")

	// 1. Input Token
	fmt.Print(Bold + "1. Enter Input Token Address: " + Reset)
	tokenIn, err := readAndValidateToken(view, chainCtx, reader)
	if err != nil {
		fmt.Println(Red + err.Error() + Reset)
		return
	}
	fmt.Printf("%s   Selected Input: %s (%d decimals)%s\n", Green, tokenIn.Symbol, tokenIn.Decimals, Reset)

	// 2. Output Token
	fmt.Print(Bold + "2. Enter Output Token Address: " + Reset)
	tokenOut, err := readAndValidateToken(view, chainCtx, reader)
	if err != nil {
		fmt.Println(Red + err.Error() + Reset)
		return
	}
	fmt.Printf("%s   Selected Output: %s (%d decimals)%s\n", Green, tokenOut.Symbol, tokenOut.Decimals, Reset)

	// 3. Amount
	fmt.Print(Bold + "3. Enter Input Amount (e.g. 1.5): " + Reset)
	amountInput, _ := reader.ReadString('\n')
	amountInput = strings.TrimSpace(amountInput)
	amountFloat, ok := new(big.Float).SetString(amountInput)
	if !ok {
		fmt.Println(Red + "Invalid amount format." + Reset)
		return
	}

	// Scale Amount: raw = input * 10^decimals
	scale := new(big.Float).SetInt(numeric.Pow10(tokenIn.Decimals))
	rawAmount, _ := new(big.Float).Mul(amountFloat, scale).Int(nil)

	fmt.Printf("\nQuoting %s %s (Raw: %s)... scoring candidate paths...\n", amountInput, tokenIn.Symbol, rawAmount.String())

	// 4. Route & Price
	router, err := swap.NewRouter(swap.RouterConfig{
		Ctx:              chainCtx,
		MarketsData:      view.markets,
		Graph:            view.graph,
		FromTokenAddress: tokenIn.Address,
		ToTokenAddress:   tokenOut.Address,
		Estimator:        swap.NewEstimator(chainCtx, view.markets),
		Registry:         prometheus.DefaultRegisterer,
		Logger:           logger,
	})
	if err != nil {
		fmt.Printf(Red+"[ERROR] Failed to initialize router: %v%s\n", err, Reset)
		return
	}

	amounts, err := trade.GetSwapAmountsByFromValue(trade.SwapOrderParams{
		Ctx:                    chainCtx,
		TokenIn:                tokenIn,
		TokenOut:               tokenOut,
		AmountIn:               rawAmount,
		Router:                 router,
		AllowedSwapSlippageBps: cfg.SlippageBps,
	})
	if err != nil {
		fmt.Printf(Red+"[ERROR] Quote failed: %v%s\n", err, Reset)
		return
	}
	if amounts == nil {
		fmt.Println(Yellow + "No route found for this pair." + Reset)
		return
	}

	printQuoteResult(view, amounts, tokenIn, tokenOut)
}

func printQuoteResult(view *snapshotView, amounts *trade.SwapAmounts, tokenIn, tokenOut *markets.Token) {
	header("BEST ROUTE FOUND")

	fmt.Printf("%sEst. Output:%s %s %s (Raw: %s)\n", Bold, Reset,
		humanAmount(amounts.AmountOut, tokenOut.Decimals), tokenOut.Symbol, amounts.AmountOut.String())
	fmt.Printf("%sMin. Output:%s %s %s (slippage applied)\n", Bold, Reset,
		humanAmount(amounts.MinOutputAmount, tokenOut.Decimals), tokenOut.Symbol)
	fmt.Printf("%sValue:%s      $%s in -> $%s out\n\n", Bold, Reset,
		humanUsd(amounts.UsdIn), humanUsd(amounts.UsdOut))

	stats := amounts.SwapPathStats
	if stats == nil {
		fmt.Println(Gray + "Direct wrap/unwrap transfer. No pools involved." + Reset)
		return
	}

	fmt.Printf("%sTotal Fees:%s  $%s | %sPrice Impact:%s $%s\n\n", Bold, Reset,
		humanUsd(stats.TotalSwapFeeUsd), Bold, Reset, humanUsd(stats.TotalSwapPriceImpactDeltaUsd))

	fmt.Println(Bold + "Route Path:" + Reset)
	for i, step := range stats.SwapSteps {
		symIn := symbolFor(view, step.TokenInAddress)
		symOut := symbolFor(view, step.TokenOutAddress)

		marketDesc := step.MarketAddress.Hex()
		if m, err := view.markets.Get(step.MarketAddress); err == nil && m.Name != "" {
			marketDesc = m.Name
		}

		fmt.Printf(" [ Step %d ]\n", i+1)
		fmt.Printf("  %s%-6s%s\n", Cyan, symIn, Reset)
		fmt.Printf("    %s|%s\n", Gray, Reset)
		fmt.Printf("    %s+---[%s%s | fee $%s%s]--->%s  %s%-6s%s\n",
			Gray,
			Reset, marketDesc, humanUsd(step.SwapFeeUsd),
			Gray,
			Reset,
			Cyan, symOut, Reset)
		fmt.Println("")
	}
}

// --- HELPERS ---

func readAndValidateToken(view *snapshotView, chainCtx *chains.ChainContext, reader *bufio.Reader) (*markets.Token, error) {
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty input")
	}
	if !common.IsHexAddress(input) {
		return nil, fmt.Errorf("invalid address format: %s", input)
	}

	addr := chainCtx.NormalizeTokenAddress(common.HexToAddress(input))
	token, err := view.tokens.Get(addr)
	if err != nil {
		return nil, fmt.Errorf("token not found in snapshot: %s", input)
	}
	return token, nil
}

func symbolFor(view *snapshotView, addr common.Address) string {
	if token, err := view.tokens.Get(addr); err == nil && token.Symbol != "" {
		return token.Symbol
	}
	return addr.Hex()
}

// humanUsd renders a 1e30-scaled USD value with two decimals.
func humanUsd(usd *big.Int) string {
	if usd == nil {
		return "0.00"
	}
	value := new(big.Float).Quo(new(big.Float).SetInt(usd), new(big.Float).SetInt(numeric.Precision))
	return value.Text('f', 2)
}

// humanUsdPrice renders a token's min oracle price in whole-token USD.
func humanUsdPrice(token *markets.Token) string {
	if token.Prices.Min == nil {
		return "n/a"
	}
	oneToken := numeric.Pow10(token.Decimals)
	return "$" + humanUsd(new(big.Int).Mul(token.Prices.Min, oneToken))
}

func humanAmount(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	value := new(big.Float).Quo(new(big.Float).SetInt(amount), new(big.Float).SetInt(numeric.Pow10(decimals)))
	return value.Text('f', 4)
}

func exitConsole() {
	fmt.Println(Yellow + "Exiting..." + Reset)
	os.Exit(0)
}

func loadConfig() (*config.ConsoleConfig, error) {
	configPath := flag.String("config", "config.yaml", "Path to the configuration file.")
	flag.Parse()
	log.Printf("Loading configuration from: %s", *configPath)
	return config.LoadConfig(*configPath)
}

func loadSnapshotFile(path string) (*engine.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	var snapshot engine.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot file: %w", err)
	}
	return &snapshot, nil
}
