package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bsuir-rt/rtutils/internal/config"
	"github.com/bsuir-rt/rtutils/internal/logging"
	"github.com/bsuir-rt/rtutils/internal/parser"
	"github.com/bsuir-rt/rtutils/internal/report"
	"github.com/bsuir-rt/rtutils/internal/ui"
	"github.com/bsuir-rt/rtutils/internal/watch"
)

var version = "0.3.0"

// exitFailure is the status for any aborted run
const exitFailure = 12

var docCmd = &cobra.Command{
	Use:   "doc [source-dir...]",
	Short: "Generate documentation for project sources",
	Long: `Parses the root document of every project and the files it references.

Without arguments the configured module list is used:
  <root>-<module>/<source_dir>`,
	RunE: runDoc,
}

var browseCmd = &cobra.Command{
	Use:   "browse [source-dir...]",
	Short: "Resolve projects and browse the result",
	RunE:  runBrowse,
}

var rootCmd = &cobra.Command{
	Use:   "rtutils",
	Short: "Documentation utilities for the RT project sources",
	Long: `Walks LaTeX project sources, follows \input references one level
deep from each manifest and reports unknown commands.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(docCmd, browseCmd)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Trace parsing at debug level")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	docCmd.Flags().BoolP("watch", "w", false, "Regenerate when sources change")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	config.Init()
}

// newParser builds a parser on the OS filesystem from the current configuration,
// reporting to the command's output streams
func newParser(cmd *cobra.Command) (*parser.Parser, *report.Reporter, zerolog.Logger) {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		config.SetLogLevel(string(logging.LevelDebug))
	}
	log := logging.New(config.GetLogLevel(), cmd.ErrOrStderr())
	reporter := report.New(cmd.OutOrStdout(), cmd.ErrOrStderr())

	p := parser.NewParser(afero.NewOsFs(), reporter).
		WithLayout(config.GetSourceDir(), config.GetManifest(), config.GetExtension()).
		WithLogger(log)
	return p, reporter, log
}

func runDoc(cmd *cobra.Command, args []string) error {
	dirs := config.ProjectDirs(args)
	p, reporter, log := newParser(cmd)

	projects, err := p.Generate(dirs)
	if watching, _ := cmd.Flags().GetBool("watch"); !watching {
		return err
	}
	if err != nil {
		reporter.Errorf("%v", err)
	}

	w, err := watch.New(watch.Config{
		Dirs:      watchDirs(dirs, projects),
		Extension: config.GetExtension(),
		Debounce:  config.GetWatchDebounce(),
	}, log)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Strs("dirs", dirs).Msg("watching for changes")
	return w.Run(ctx, func() error {
		_, err := p.Generate(dirs)
		if err != nil {
			reporter.Errorf("%v", err)
		}
		return err
	})
}

func runBrowse(cmd *cobra.Command, args []string) error {
	p, _, _ := newParser(cmd)

	projects, err := p.Generate(config.ProjectDirs(args))
	if err != nil {
		return err
	}
	return ui.Browse(projects)
}

// watchDirs returns the source directories plus every directory holding a
// parsed file, without duplicates
func watchDirs(dirs []string, projects []*parser.Project) []string {
	seen := make(map[string]bool)
	var result []string
	add := func(dir string) {
		dir = filepath.Clean(dir)
		if !seen[dir] {
			seen[dir] = true
			result = append(result, dir)
		}
	}

	for _, dir := range dirs {
		add(dir)
	}
	for _, project := range projects {
		for _, file := range project.Files {
			add(filepath.Dir(filepath.Join(project.Source, filepath.FromSlash(file))))
		}
	}
	return result
}

// run executes the command line and returns the exit status. Unknown-command
// warnings never fail a run; any abort does.
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd.Version = version
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		report.New(stdout, stderr).Errorf("%v", err)
		return exitFailure
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
