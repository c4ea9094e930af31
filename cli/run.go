package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ka2n/scrapeview/api"
	"github.com/ka2n/scrapeview/app"
	"github.com/ka2n/scrapeview/log"
	"github.com/ka2n/scrapeview/mcp"
	"github.com/mattn/go-isatty"
	"github.com/morikuni/failure/v2"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

// envAPIURL names the environment variable holding the backend address
const envAPIURL = "SCRAPEVIEW_API_URL"

// Version information
var (
	Commit = "none"
	Date   = "unknown"
)

type rootOptions struct {
	apiURL  string
	timeout time.Duration
	noFetch bool
	output  outputFormatFlag

	// isTerminal reports whether w is an interactive terminal
	isTerminal func(w io.Writer) bool
}

func (o *rootOptions) client() (*api.Client, error) {
	baseURL := o.apiURL
	if baseURL == "" {
		baseURL = os.Getenv(envAPIURL)
	}
	return api.NewClient(baseURL, api.WithTimeout(o.timeout))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewRootCommand builds the scrapeview command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{isTerminal: isTerminal}

	rootCmd := &cobra.Command{
		Use:           "scrapeview",
		Short:         "Scrape cloud architecture pages and browse the results",
		SilenceErrors: true,
		SilenceUsage:  true,
		Long: `scrapeview is a terminal client for the architecture scraper backend.
Type a URL and press enter to have the backend scrape it, press ctrl+r to
display everything scraped so far, and ctrl+x to delete it all.

The backend address is taken from --api-url or the SCRAPEVIEW_API_URL
environment variable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "Backend API base URL (default $"+envAPIURL+")")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", api.DefaultTimeout, "Timeout of a single backend request, 0 for no limit")
	rootCmd.Flags().BoolVar(&opts.noFetch, "no-fetch", false, "Do not load scraped architectures on start")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print every scraped architecture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts)
		},
	}
	listCmd.Flags().VarP(&opts.output, "output", "o", "Output format (text|json)")

	scrapeCmd := &cobra.Command{
		Use:   "scrape <url>",
		Short: "Ask the backend to scrape a URL",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, opts, args[0])
		},
	}

	deleteAllCmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every scraped architecture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeleteAll(cmd, opts)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <id|position>",
		Short: "Show every field of one scraped architecture",
		Long: `Show every field of one scraped architecture, selected by its id or,
when no id matches, by its 1-based position in the list output.`,
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, opts, args[0])
		},
	}

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealth(cmd, opts)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Print detailed version information about scrapeview",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			commit := Commit
			if api.VersionCommit != "" {
				commit = api.VersionCommit
			}
			fmt.Fprintf(out, "scrapeview version %s\n", api.Version)
			fmt.Fprintf(out, "  commit: %s\n", commit)
			fmt.Fprintf(out, "  built:  %s\n", Date)
		},
	}

	mcpCmd := mcp.Command(func() (mcp.Backend, error) {
		return opts.client()
	})

	rootCmd.AddCommand(listCmd, scrapeCmd, deleteAllCmd, showCmd, healthCmd, versionCmd, mcpCmd)
	return rootCmd
}

// Run executes the main CLI functionality
func Run() error {
	return NewRootCommand().Execute()
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return failure.New(InvalidArguments,
				failure.Message(fmt.Sprintf("%s accepts %d arg(s), received %d", cmd.CommandPath(), n, len(args))),
			)
		}
		return nil
	}
}

func runUI(cmd *cobra.Command, opts *rootOptions) error {
	client, err := opts.client()
	if err != nil {
		return err
	}

	// Without a terminal there is no screen to drive; print the list instead
	if !opts.isTerminal(cmd.OutOrStdout()) {
		return printItems(cmd, opts, client)
	}

	// The screen owns the terminal, so logs and browser chatter go elsewhere
	restore, err := log.RedirectToFile(log.DefaultLogFile())
	if err != nil {
		return failure.Wrap(err)
	}
	defer restore()
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard

	log.Info("Starting scraper screen", "api_url", client.BaseURL())
	if err := app.Run(client, app.Options{FetchOnStart: !opts.noFetch}); err != nil {
		return failure.Wrap(err)
	}
	return nil
}

func runList(cmd *cobra.Command, opts *rootOptions) error {
	client, err := opts.client()
	if err != nil {
		return err
	}
	return printItems(cmd, opts, client)
}

func printItems(cmd *cobra.Command, opts *rootOptions, client *api.Client) error {
	items, err := client.ListItems(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.output.String() == outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return failure.Wrap(enc.Encode(items))
	}

	fmt.Fprintln(out, app.RenderItems(items, app.RenderOptions{Selected: -1}))
	return nil
}

func runScrape(cmd *cobra.Command, opts *rootOptions, rawURL string) error {
	client, err := opts.client()
	if err != nil {
		return err
	}
	if err := client.SubmitURL(cmd.Context(), rawURL); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Submitted %s for scraping\n", rawURL)
	return nil
}

func runDeleteAll(cmd *cobra.Command, opts *rootOptions) error {
	client, err := opts.client()
	if err != nil {
		return err
	}
	if err := client.DeleteAllItems(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Deleted all scraped architectures")
	return nil
}

func runShow(cmd *cobra.Command, opts *rootOptions, ref string) error {
	client, err := opts.client()
	if err != nil {
		return err
	}
	items, err := client.ListItems(cmd.Context())
	if err != nil {
		return err
	}
	item, err := api.FindItem(items, ref)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !opts.isTerminal(out) {
		fmt.Fprint(out, app.ItemMarkdown(item, nil))
		return nil
	}

	content, err := app.RenderDetail(item, 100, nil)
	if err != nil {
		return err
	}
	if err := app.RunPager(content); err != nil {
		return failure.Wrap(err)
	}
	return nil
}

func runHealth(cmd *cobra.Command, opts *rootOptions) error {
	client, err := opts.client()
	if err != nil {
		return err
	}
	status, err := client.Health(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), status)
	return nil
}
