package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	exportsvc "github.com/agri-tools/fruit-atlas/pkg/export"
	"github.com/agri-tools/fruit-atlas/pkg/export/assets"
	"github.com/agri-tools/fruit-atlas/pkg/export/csvenc"
	"github.com/agri-tools/fruit-atlas/pkg/export/htmlpdf"
	"github.com/agri-tools/fruit-atlas/pkg/export/vectorpdf"
	"github.com/agri-tools/fruit-atlas/pkg/models/domain"
	"github.com/agri-tools/fruit-atlas/pkg/runtime/terminal/export"
	"github.com/agri-tools/fruit-atlas/pkg/services/analytics"
	"github.com/agri-tools/fruit-atlas/pkg/services/config"
	reportsvc "github.com/agri-tools/fruit-atlas/pkg/services/report"
	"github.com/agri-tools/fruit-atlas/pkg/store/scanlog"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type ReportCmd struct {
	cfgPath     string
	profileName string
	scope       string
	category    string
	format      string
	output      string
	days        int
	reporter    *export.Reporter
}

func NewReportCmd(reporter *export.Reporter) *cobra.Command {
	rc := &ReportCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a fruit analysis report",
		RunE:  rc.run,
	}

	cmd.Flags().StringVar(&rc.cfgPath, "config", defaultConfigPath(), "Path to the .fruitatlascfg file")
	cmd.Flags().StringVar(&rc.profileName, "profile", "default", "Institution profile to report for")
	cmd.Flags().StringVar(&rc.scope, "scope", "overall", "Report scope (overall or category)")
	cmd.Flags().StringVar(&rc.category, "category", "", "Maturity stage for category scope (GREEN, YELLOW, BROWN)")
	cmd.Flags().StringVar(&rc.format, "format", "csv", "Output format (csv or pdf)")
	cmd.Flags().StringVar(&rc.output, "output", "", "Output file path; omit to print a text preview")
	cmd.Flags().IntVar(&rc.days, "days", 0, "Restrict to scans from the last N days (0 means all)")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	registry, err := config.NewRegistry(rc.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	profile, err := registry.GetProfile(ctx, rc.profileName)
	if err != nil {
		return fmt.Errorf("failed to load profile %q: %w", rc.profileName, err)
	}

	req, err := rc.assembleRequest(ctx, profile)
	if err != nil {
		return err
	}

	doc, err := reportsvc.BuildDocument(*req)
	if err != nil {
		return err
	}

	if rc.output == "" {
		return rc.reporter.Handle(doc)
	}

	format := exportsvc.Format(rc.format)
	if !format.Valid() {
		return fmt.Errorf("unsupported format %q, expected csv or pdf", rc.format)
	}

	logger := zerolog.Ctx(ctx)
	exporter, err := buildExporter(profile, *logger)
	if err != nil {
		return err
	}

	payload, err := exporter.Export(ctx, doc, format)
	if err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}

	data := payload.Bytes
	if format == exportsvc.FormatCSV {
		data = append(append([]byte{}, utf8BOM...), data...)
	}
	if err := os.WriteFile(rc.output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s (%d bytes)\n", rc.output, len(data))
	return nil
}

func (rc *ReportCmd) assembleRequest(ctx context.Context, profile *config.Profile) (*domain.ReportRequest, error) {
	req := domain.ReportRequest{Scope: domain.ReportScope(rc.scope)}

	if req.Scope == domain.ScopeCategory {
		cat := domain.Category(strings.ToUpper(rc.category))
		if !cat.Valid() {
			return nil, fmt.Errorf("unknown category %q, expected GREEN, YELLOW or BROWN", rc.category)
		}
		req.Category = cat
	}
	// Reject a bad scope/category pair before opening the scan log.
	if err := req.Validate(); err != nil {
		return nil, err
	}

	dbPath := profile.DBPath
	if dbPath == "" {
		dbPath = "fruit-atlas.db"
	}
	db, err := scanlog.NewDB(scanlog.Settings{DbPath: dbPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open scan log: %w", err)
	}
	defer db.Close()

	store, err := scanlog.NewStore(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create scan store: %w", err)
	}

	var since *time.Time
	if rc.days > 0 {
		cutoff := time.Now().AddDate(0, 0, -rc.days)
		since = &cutoff
	}

	// The full record set feeds the system-wide analytics; category
	// filtering happens in the builder.
	records, err := store.GetRecords(ctx, nil, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load scan records: %w", err)
	}
	req.Records = records
	req.Analytics = analytics.Aggregate(records)

	if req.Scope == domain.ScopeOverall {
		users, err := store.GetUsers(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load users: %w", err)
		}
		req.Users = users
	}

	return &req, nil
}

// buildExporter mirrors the web wiring: CSV always, plus the vector
// paginator unless the profile selects the HTML conversion fallback.
func buildExporter(profile *config.Profile, logger zerolog.Logger) (*exportsvc.Service, error) {
	var cache *assets.Cache
	if profile.LogoPath != "" {
		cache = assets.NewCache(assets.FileLoader(profile.LogoPath), logger)
	}

	if profile.ConverterConfig != "" {
		converterCfg, err := htmlpdf.LoadConfig(profile.ConverterConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to load converter config: %w", err)
		}
		fallback := htmlpdf.NewRenderer(htmlpdf.Options{
			ConverterURL: converterCfg.URL,
			HeaderLines:  profile.InstitutionLines,
			FooterLabel:  profile.FooterLabel,
			Timeout:      converterCfg.Timeout(),
		}, cache, logger)
		return exportsvc.NewService(csvenc.NewEncoder(), fallback), nil
	}

	vector := vectorpdf.NewRenderer(vectorpdf.Options{
		HeaderLines: profile.InstitutionLines,
		FooterLabel: profile.FooterLabel,
	}, cache, logger)
	return exportsvc.NewService(csvenc.NewEncoder(), vector), nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fruitatlascfg"
	}
	return home + "/.fruitatlascfg"
}
