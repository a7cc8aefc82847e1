package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wesleywu/routetable/internal/config"
	"github.com/wesleywu/routetable/internal/logger"
	"github.com/wesleywu/routetable/internal/lookup"
	"github.com/wesleywu/routetable/internal/metrics"
	"github.com/wesleywu/routetable/internal/netif"
	"github.com/wesleywu/routetable/internal/snapshot"
	"github.com/wesleywu/routetable/pkg/routetable"
)

var version = "1.0.0"

type options struct {
	configFile  string
	file        string
	netstat     string
	timeout     time.Duration
	workers     int
	verboseMode bool
	jsonOutput  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "routetable",
		Short:         "Inspect the system routing table",
		Long:          `Parse the output of netstat -rn and answer which route, gateway and interface carry traffic to an address.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	lookupCmd := &cobra.Command{
		Use:   "lookup ADDR... | lookup -",
		Short: "Find the route for one or more addresses",
		Long:  `Find the route for each address. With "-", addresses are read from standard input line by line and the routing table is refreshed between lines.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, args)
		},
	}
	lookupCmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print one JSON object per address")

	gatewaysCmd := &cobra.Command{
		Use:   "gateways [IFACE]",
		Short: "List default gateways per interface",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGateways(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, args)
		},
	}

	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the parsed routing table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDump(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			showVersion(cmd.OutOrStdout())
		},
	}

	addLoadFlags(rootCmd.PersistentFlags(), opts)

	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(gatewaysCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

func addLoadFlags(fs *pflag.FlagSet, opts *options) {
	fs.StringVarP(&opts.configFile, "config", "c", "", "Configuration file path")
	fs.StringVarP(&opts.file, "file", "f", "", "Read a saved netstat -rn snapshot instead of running netstat")
	fs.StringVar(&opts.netstat, "netstat", "", "Path to the netstat binary")
	fs.DurationVar(&opts.timeout, "timeout", 0, "Timeout for running netstat")
	fs.IntVarP(&opts.workers, "workers", "w", 0, "Number of concurrent lookup workers")
	fs.BoolVarP(&opts.verboseMode, "verbose", "v", false, "Verbose mode (debug level logging)")
}

// loadConfig applies command line overrides on top of the config file
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if opts.file != "" {
		cfg.SnapshotFile = opts.file
	}
	if opts.netstat != "" {
		cfg.NetstatPath = opts.netstat
	}
	if opts.timeout > 0 {
		cfg.CommandTimeout = config.Duration(opts.timeout)
	}
	if opts.workers > 0 {
		cfg.ConcurrencyLimit = opts.workers
	}
	if opts.verboseMode {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session holds what every command needs to load and query the table
type session struct {
	cfg     *config.Config
	log     *logger.Logger
	loader  *snapshot.Loader
	metrics *metrics.Metrics
}

func newSession(opts *options, logOut io.Writer) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	log := logger.NewWithWriter(logOut, cfg.LogLevel)

	src, err := snapshot.NewSource(cfg.SnapshotFile, cfg.NetstatPath, cfg.NetstatArgs)
	if err != nil {
		return nil, err
	}
	log.ConfigLoaded(opts.configFile, src.Name())

	m := metrics.NewMetrics()
	return &session{
		cfg:     cfg,
		log:     log,
		loader:  snapshot.NewLoader(src, time.Duration(cfg.CacheTTL), time.Duration(cfg.CommandTimeout), m, log),
		metrics: m,
	}, nil
}

func (s *session) table(ctx context.Context) (*routetable.RoutingTable, error) {
	return s.loader.Load(ctx)
}

// reportStats logs the load and lookup counters at debug level
func (s *session) reportStats() {
	stats := s.metrics.GetStats()
	s.log.Performance("snapshot", map[string]interface{}{
		"loads":           stats.Loads,
		"success_loads":   stats.SuccessLoads,
		"failed_loads":    stats.FailedLoads,
		"cache_hits":      stats.CacheHits,
		"average_load_ms": stats.AverageLoad.Milliseconds(),
		"lookups":         stats.Lookups,
	})
}

type lookupRecord struct {
	Address     string `json:"address"`
	Found       bool   `json:"found"`
	Destination string `json:"destination,omitempty"`
	Gateway     string `json:"gateway,omitempty"`
	Interface   string `json:"interface,omitempty"`
	Flags       string `json:"flags,omitempty"`
}

// runLookup resolves the addresses in args. A single "-" argument reads
// whitespace separated addresses from in, one batch per line; the table is
// reloaded for each line so long running input sees route changes.
func runLookup(ctx context.Context, in io.Reader, w, logOut io.Writer, opts *options, args []string) error {
	s, err := newSession(opts, logOut)
	if err != nil {
		return err
	}
	defer s.reportStats()

	if len(args) != 1 || args[0] != "-" {
		return s.lookupBatch(ctx, w, opts.jsonOutput, args)
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if err := s.lookupBatch(ctx, w, opts.jsonOutput, fields); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (s *session) lookupBatch(ctx context.Context, w io.Writer, jsonOutput bool, args []string) error {
	addrs, err := lookup.ParseAddrs(args)
	if err != nil {
		return err
	}

	table, err := s.table(ctx)
	if err != nil {
		return err
	}
	results, err := lookup.Resolve(ctx, table, addrs, s.cfg.ConcurrencyLimit, s.metrics, s.log)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	for i, r := range results {
		if jsonOutput {
			rec := lookupRecord{Address: args[i], Found: r.Found}
			if r.Found {
				rec.Destination = r.Entry.Destination.String()
				rec.Gateway = r.Entry.Gateway.String()
				rec.Interface = r.Entry.Interface
				rec.Flags = r.Entry.Flags.String()
			}
			if err := enc.Encode(rec); err != nil {
				return err
			}
			continue
		}

		if !r.Found {
			fmt.Fprintf(w, "No route to %s\n", args[i])
			continue
		}
		fmt.Fprintf(w, "%s => %s via %s\n", args[i], r.Entry.Gateway, r.Entry.Interface)
	}
	return nil
}

func runGateways(ctx context.Context, w, logOut io.Writer, opts *options, args []string) error {
	s, err := newSession(opts, logOut)
	if err != nil {
		return err
	}
	defer s.reportStats()

	table, err := s.table(ctx)
	if err != nil {
		return err
	}

	ifaces := table.Interfaces()
	if len(args) == 1 {
		if _, ok := table.DefaultGateways(args[0]); !ok {
			return fmt.Errorf("no default gateway for interface %s", args[0])
		}
		ifaces = args
	}

	for _, iface := range ifaces {
		gws, _ := table.DefaultGateways(iface)
		names := make([]string, len(gws))
		for i, gw := range gws {
			names[i] = gw.String()
		}
		fmt.Fprintf(w, "%s (%s): %s\n", iface, netif.Classify(iface), strings.Join(names, ", "))
	}
	return nil
}

func runDump(ctx context.Context, w, logOut io.Writer, opts *options) error {
	s, err := newSession(opts, logOut)
	if err != nil {
		return err
	}
	defer s.reportStats()

	table, err := s.table(ctx)
	if err != nil {
		return err
	}

	sections := []struct {
		marker string
		proto  routetable.Protocol
	}{
		{routetable.SectionIPv4, routetable.ProtocolV4},
		{routetable.SectionIPv6, routetable.ProtocolV6},
	}
	printed := false
	for _, sec := range sections {
		routes := table.RoutesFor(sec.proto)
		if len(routes) == 0 {
			continue
		}
		if printed {
			fmt.Fprintln(w)
		}
		printed = true
		fmt.Fprintln(w, sec.marker)
		for _, r := range routes {
			fmt.Fprintln(w, r.String())
		}
	}
	return nil
}

func showVersion(w io.Writer) {
	fmt.Fprintf(w, "routetable v%s\n", version)
	fmt.Fprintf(w, "Runtime: %s\n", runtime.Version())
	fmt.Fprintf(w, "Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
