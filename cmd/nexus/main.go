// Command nexus runs stored node graphs.
//
// It loads host configuration, registers native and scripted prototypes,
// opens the graph store, and runs a named graph document. Control state
// mutated by the run is written back to the store.
//
//	nexus -config nexus.yaml -graph patch
//	nexus -store graphs.db -list
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/encodelabs/nexus/pkg/nexus"
	"github.com/encodelabs/nexus/pkg/nexus/config"
	"github.com/encodelabs/nexus/pkg/nexus/observability"
	"github.com/encodelabs/nexus/pkg/nexus/script"
	"github.com/encodelabs/nexus/pkg/nexus/store"
)

func main() {
	configPath := flag.String("config", "", "host config file (yaml or json)")
	scriptsDir := flag.String("scripts", "", "directory of *.zy node definition scripts (overrides config)")
	storePath := flag.String("store", "", "sqlite graph store path (overrides config)")
	graphName := flag.String("graph", "", "name of the graph document to run")
	list := flag.Bool("list", false, "list stored graph documents and exit")
	noSave := flag.Bool("no-save", false, "do not write control state back after the run")
	flag.Parse()

	if err := run(*configPath, *scriptsDir, *storePath, *graphName, *list, *noSave); err != nil {
		fmt.Fprintln(os.Stderr, "nexus:", err)
		os.Exit(1)
	}
}

func run(configPath, scriptsDir, storePath, graphName string, list, noSave bool) error {
	host := config.DefaultHost()
	if configPath != "" {
		var err error
		if host, err = config.LoadHost(configPath); err != nil {
			return err
		}
	}
	if scriptsDir != "" {
		host.ScriptsDir = scriptsDir
	}
	if storePath != "" {
		host.StorePath = storePath
	}

	logger := newLogger(host)
	slog.SetDefault(logger)

	st, err := openStore(host)
	if err != nil {
		return err
	}
	defer st.Close()

	if list {
		return listDocuments(st)
	}
	if graphName == "" {
		return fmt.Errorf("no graph named; use -graph (or -list to see stored documents)")
	}

	if err := nexus.RegisterNatives(nexus.DefaultRegistry()); err != nil {
		return err
	}
	if _, err := os.Stat(host.ScriptsDir); err == nil {
		sh := script.NewHost(nexus.DefaultRegistry())
		defer sh.Close()
		if err := sh.LoadDir(host.ScriptsDir); err != nil {
			return fmt.Errorf("load scripts: %w", err)
		}
	}

	data, err := st.Load(graphName)
	if err != nil {
		return fmt.Errorf("load graph %q: %w", graphName, err)
	}
	g := nexus.NewGraph()
	if err := json.Unmarshal(data, g); err != nil {
		return fmt.Errorf("decode graph %q: %w", graphName, err)
	}

	ctx := nexus.NewContext(context.Background(), nexus.WithLogger(logger))
	var metrics observability.MetricsRecorder = observability.NoopMetrics{}
	opts := []nexus.RunOption{}
	if host.Metrics {
		metrics = observability.NewMetricsRecorder()
		opts = append(opts, nexus.WithMetrics(metrics))
	}
	if host.Tracing {
		opts = append(opts, nexus.WithTracing(observability.NewSpanManager()))
	}

	result, runErr := nexus.Run(ctx, g, opts...)
	if runErr != nil {
		return fmt.Errorf("run graph %q: %w", graphName, runErr)
	}

	printControls(g)

	if !noSave {
		updated, err := json.Marshal(g)
		if err != nil {
			return fmt.Errorf("encode graph %q: %w", graphName, err)
		}
		if err := st.Save(graphName, updated); err != nil {
			return fmt.Errorf("save graph %q: %w", graphName, err)
		}
		metrics.RecordPersist(ctx, graphName, int64(len(updated)))
	}

	logger.Info("run finished",
		slog.String("graph", graphName),
		slog.String("run_id", result.RunID),
		slog.Int("nodes", len(result.Executed)))
	return nil
}

// newLogger builds the host logger from config.
func newLogger(host config.Host) *slog.Logger {
	var level slog.Level
	switch host.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if host.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// openStore opens the configured store, in-memory when no path is set.
func openStore(host config.Host) (store.Store, error) {
	if host.StorePath == "" {
		return store.NewMemoryStore(), nil
	}
	return store.NewSQLiteStore(host.StorePath)
}

// listDocuments prints stored graph documents.
func listDocuments(st store.Store) error {
	infos, err := st.List()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("no stored graphs")
		return nil
	}
	for _, info := range infos {
		fmt.Printf("%-30s %8d bytes  %s\n", info.Name, info.Size,
			info.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// printControls prints every node's control state after the run.
func printControls(g *nexus.Graph) {
	for _, id := range g.NodeIDs() {
		n := g.Node(id)
		controls := n.Controls()
		if controls.Len() == 0 {
			continue
		}
		fmt.Printf("%s (%s):\n", n.Title(), n.PrototypeID())
		for _, name := range controls.Names() {
			c, _ := controls.Get(name)
			fmt.Printf("  %-12s %s\n", name, c.Display())
		}
	}
}
