// Command floodwatch monitors Sri Lanka river gauges via the Irrigation
// Department's public feature services.
//
// Usage:
//
//	floodwatch [summary]                print the live status report
//	floodwatch risk <lat> <lon>         assess flood risk at a point
//	floodwatch dashboard [-o file]      write the HTML status page
//	floodwatch map [-o file]            write the interactive map page
//	floodwatch serve                    run the HTTP service
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/minzi-dev/floodwatch/internal/adapter/arcgis"
	httpadapter "github.com/minzi-dev/floodwatch/internal/adapter/http"
	kafkaadapter "github.com/minzi-dev/floodwatch/internal/adapter/kafka"
	"github.com/minzi-dev/floodwatch/internal/config"
	"github.com/minzi-dev/floodwatch/internal/domain"
	"github.com/minzi-dev/floodwatch/internal/observability"
	"github.com/minzi-dev/floodwatch/internal/report"
	"github.com/minzi-dev/floodwatch/internal/snapshot"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	client := arcgis.NewClient(cfg, logger, metrics)

	cmd := "summary"
	args := os.Args[1:]
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}

	switch cmd {
	case "summary":
		err = runSummary(client)
	case "risk":
		err = runRisk(cfg, client, args)
	case "dashboard":
		err = runDashboard(client, args)
	case "map":
		err = runMap(client, args)
	case "serve":
		err = runServe(cfg, logger, metrics, client)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		fmt.Fprintln(os.Stderr, "usage: floodwatch [summary|risk|dashboard|map|serve]")
		os.Exit(2)
	}

	if err != nil {
		logger.Error("command failed", "command", cmd, "error", err)
		os.Exit(1)
	}
}

func buildRecords(ctx context.Context, client *arcgis.Client) ([]domain.StationRecord, error) {
	stations, err := client.FetchStations(ctx)
	if err != nil {
		return nil, err
	}
	readings, err := client.FetchReadings(ctx)
	if err != nil {
		return nil, err
	}
	return domain.BuildRecords(stations, readings), nil
}

func runSummary(client *arcgis.Client) error {
	records, err := buildRecords(context.Background(), client)
	if err != nil {
		return err
	}
	report.WriteSummary(os.Stdout, records, domain.Now())
	return nil
}

func runRisk(cfg *config.Config, client *arcgis.Client, args []string) error {
	fs := flag.NewFlagSet("risk", flag.ExitOnError)
	radius := fs.Float64("radius", cfg.RiskRadiusKm, "search radius in km")
	asJSON := fs.Bool("json", false, "print the assessment as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: floodwatch risk [-radius km] [-json] <lat> <lon>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return errors.New("risk needs <lat> and <lon> arguments")
	}

	lat, err := strconv.ParseFloat(fs.Arg(0), 64)
	if err != nil || lat < -90 || lat > 90 {
		return fmt.Errorf("invalid latitude %q", fs.Arg(0))
	}
	lon, err := strconv.ParseFloat(fs.Arg(1), 64)
	if err != nil || lon < -180 || lon > 180 {
		return fmt.Errorf("invalid longitude %q", fs.Arg(1))
	}

	records, err := buildRecords(context.Background(), client)
	if err != nil {
		return err
	}

	assessment := domain.AssessRisk(domain.Coordinate{Lat: lat, Lon: lon}, *radius, records)
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(assessment)
	}
	report.WriteRisk(os.Stdout, assessment)
	return nil
}

func runDashboard(client *arcgis.Client, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	out := fs.String("o", "flood_status.html", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	records, err := buildRecords(context.Background(), client)
	if err != nil {
		return err
	}

	page, err := report.RenderDashboard(records, domain.Now())
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, page, 0o644); err != nil {
		return fmt.Errorf("write dashboard: %w", err)
	}
	fmt.Printf("HTML report saved: %s\n", *out)
	return nil
}

func runMap(client *arcgis.Client, args []string) error {
	fs := flag.NewFlagSet("map", flag.ExitOnError)
	out := fs.String("o", "flood_map.html", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	records, err := buildRecords(ctx, client)
	if err != nil {
		return err
	}
	rivers, err := client.FetchRivers(ctx)
	if err != nil {
		return err
	}

	page, err := report.RenderMap(records, rivers)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, page, 0o644); err != nil {
		return fmt.Errorf("write map: %w", err)
	}
	fmt.Printf("Map saved: %s\n", *out)
	return nil
}

func runServe(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, client *arcgis.Client) error {
	var exporter snapshot.Exporter
	var kafkaWriter *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		kafkaWriter = kafkaadapter.NewWriter(cfg, logger)
		exporter = kafkaWriter
		logger.Info("kafka snapshot export enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	svc, err := snapshot.New(client, client, exporter, cfg.RefreshSchedule, logger, metrics)
	if err != nil {
		return err
	}

	assessor := snapshot.NewCachedAssessor(cfg.RiskCacheSize, metrics)
	srv := httpadapter.NewServer(cfg, svc, client, assessor, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := svc.Run(ctx); err != nil {
			logger.Error("snapshot service error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return nil
}
