package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Project Selection
	baseFolder      string
	interactiveMode bool
	listOnly        bool

	// Filtering
	extensionsFlag  string
	excludePatterns string
	maxSizeBytes    int64
	maxDepth        int
	showHidden      bool
	noIgnore        bool

	// Stripping
	keepComments bool

	// Output
	outputDir       string
	outputFile      string
	printToStdout   bool
	copyToClipboard bool
	pdfOutputFile   string

	// Processing
	numThreads int

	// Token Counting
	disableTokens  bool
	tokenizerType  string
	tokenizerModel string
	tokenizerFile  string

	// Reference Notes
	notesURL      string
	traverseLinks bool
	linkDepth     int

	syntaxTable *SyntaxTable
)

// version is the application version, set via ldflags.
var version string = "dev"

var rootCmd = &cobra.Command{
	Use:   "xcreview [PROJECT]",
	Short: "xcreview turns an Xcode project into a single comment-stripped review document.",
	Long: `xcreview scans an Xcode project tree for Swift and Objective-C sources,
strips comments and documentation text, groups files by folder, and writes a
single concatenated report for human or AI review.

PROJECT may be a name or 1-based index from the projects base folder, a
directory path, or a Git repository URL. With no argument the available
projects are listed and one can be picked from the prompt.`,
	Version:       version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectRoot, projectName, cleanup, err := resolveProject(args)
		if err != nil {
			return err
		}
		if cleanup != nil {
			defer cleanup()
		}
		if projectRoot == "" {
			// Listing-only run or aborted interactive selection.
			return nil
		}

		opts := PipelineOptions{
			Collect: CollectOptions{
				Extensions:   parseExtensions(extensionsFlag),
				Excludes:     parsePatterns(excludePatterns),
				MaxSizeBytes: maxSizeBytes,
				MaxDepth:     maxDepth,
				ShowHidden:   showHidden,
				NoIgnore:     noIgnore,
			},
			Syntax:       syntaxTable,
			KeepComments: keepComments,
			Report:       ReportOptions{IncludeTokens: !disableTokens},
		}

		files, err := PrepareSourceFiles(projectRoot, opts)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Fprintf(os.Stderr, "Warning: no source files found in %s\n", projectRoot)
		}

		if !disableTokens {
			countAllTokens(files)
		}
		// countAllTokens may have disabled counting on tokenizer failure.
		opts.Report.IncludeTokens = !disableTokens

		if notesURL != "" {
			opts.Report.Notes = fetchNotes(notesURL, traverseLinks, linkDepth)
		}

		groups := Categorize(files)

		if pdfOutputFile != "" {
			if err := generatePDF(projectName, groups, opts.Report, pdfOutputFile); err != nil {
				return err
			}
			fmt.Printf("Report saved to %s\n", pdfOutputFile)
			return nil
		}

		report := BuildReport(projectName, groups, opts.Report)

		if copyToClipboard {
			if err := clipboard.WriteAll(report); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing to clipboard: %v\n", err)
				fmt.Println("\n--- Output (clipboard failed) ---")
				fmt.Println(report)
				return nil
			}
			fmt.Println("Report copied to clipboard.")
			return nil
		}
		if printToStdout {
			fmt.Print(report)
			return nil
		}

		name := outputFile
		if name == "" {
			name = ReportFileName(projectName)
		}
		outPath := filepath.Join(outputDir, name)
		if err := WriteReportFile(outPath, report); err != nil {
			return err
		}
		fmt.Printf("Report saved to %s\n", outPath)
		return nil
	},
}

// resolveProject turns the command-line selection into a project root and
// name. It returns a cleanup function when a temporary clone was created,
// and an empty root when the run should stop without error (list-only or
// aborted selection).
func resolveProject(args []string) (root, name string, cleanup func(), err error) {
	if len(args) == 1 {
		selection := args[0]

		if isGitURL(selection) {
			tempDir, cloneErr := cloneGitRepo(selection)
			if cloneErr != nil {
				return "", "", nil, cloneErr
			}
			cleanup = func() { _ = os.RemoveAll(tempDir) }
			return tempDir, projectNameFromGitURL(selection), cleanup, nil
		}

		// A path-looking argument is used directly.
		if strings.ContainsRune(selection, os.PathSeparator) || selection == "." || selection == ".." {
			abs, absErr := filepath.Abs(selection)
			if absErr != nil {
				return "", "", nil, absErr
			}
			return selection, filepath.Base(abs), nil, nil
		}

		projects, listErr := listProjects(baseFolder)
		if listErr != nil {
			return "", "", nil, listErr
		}
		if idx, convErr := strconv.Atoi(selection); convErr == nil {
			if idx < 1 || idx > len(projects) {
				return "", "", nil, fmt.Errorf("project index %d out of range (1-%d)", idx, len(projects))
			}
			name = projects[idx-1]
			return filepath.Join(baseFolder, name), name, nil, nil
		}
		for _, project := range projects {
			if project == selection {
				return filepath.Join(baseFolder, project), project, nil, nil
			}
		}
		// Not listed under the base folder; try it as a plain directory name.
		candidate := filepath.Join(baseFolder, selection)
		if info, statErr := os.Stat(candidate); statErr == nil && info.IsDir() {
			return candidate, selection, nil, nil
		}
		return "", "", nil, &NotFoundError{Path: candidate}
	}

	projects, listErr := listProjects(baseFolder)
	if listErr != nil {
		return "", "", nil, listErr
	}

	if interactiveMode {
		name, err = runProjectFinder(baseFolder, projects)
		if err != nil || name == "" {
			return "", "", nil, err
		}
		return filepath.Join(baseFolder, name), name, nil, nil
	}

	printProjectList(projects)
	if listOnly {
		return "", "", nil, nil
	}
	if len(projects) == 0 {
		return "", "", nil, fmt.Errorf("no projects found under %s", baseFolder)
	}

	fmt.Print("Select a project (number): ")
	var choice int
	if _, scanErr := fmt.Scanln(&choice); scanErr != nil {
		return "", "", nil, fmt.Errorf("invalid selection: %w", scanErr)
	}
	if choice < 1 || choice > len(projects) {
		return "", "", nil, fmt.Errorf("project index %d out of range (1-%d)", choice, len(projects))
	}
	name = projects[choice-1]
	return filepath.Join(baseFolder, name), name, nil, nil
}

// printProjectList prints the numbered project listing, colored when stdout
// is a terminal.
func printProjectList(projects []string) {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
	color.New(color.FgCyan, color.Bold).Println("Available Projects:")
	if len(projects) == 0 {
		fmt.Println("  (none)")
		return
	}
	for i, project := range projects {
		fmt.Printf("%s %s\n", color.GreenString("%3d.", i+1), project)
	}
}

// parseExtensions normalizes a comma-separated extension list, ensuring each
// entry carries a leading dot. An empty flag defers to the syntax table.
func parseExtensions(flag string) []string {
	if flag == "" {
		return nil
	}
	var exts []string
	for _, ext := range strings.Split(flag, ",") {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	return exts
}

// countAllTokens initializes the configured tokenizer and counts tokens of
// each file's stripped content with a worker pool. Tokenizer failures only
// disable counting, never the run.
func countAllTokens(files []*SourceFile) {
	tokenizer, err := newTokenizer(tokenizerType, tokenizerModel, tokenizerFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing tokenizer: %v\n", err)
		fmt.Fprintln(os.Stderr, "Token counting disabled due to error.")
		disableTokens = true
		return
	}
	defer tokenizer.Close()

	numWorkers := numThreads
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	jobs := make(chan *SourceFile, len(files))
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range jobs {
				file.TokenCount = tokenizer.CountTokens(file.Stripped)
			}
		}()
	}
	for _, file := range files {
		if file.Err != nil {
			continue
		}
		jobs <- file
	}
	close(jobs)
	wg.Wait()
}

func init() {
	cobra.OnInitialize(initConfig, initSyntax)

	// Project Selection
	rootCmd.Flags().StringVarP(&baseFolder, "base", "b", ".", "Base folder containing Xcode projects")
	viper.BindPFlag("base", rootCmd.Flags().Lookup("base"))
	rootCmd.Flags().BoolVar(&interactiveMode, "interactive", false, "Pick the project with a fuzzy finder")
	viper.BindPFlag("interactive", rootCmd.Flags().Lookup("interactive"))
	rootCmd.Flags().BoolVarP(&listOnly, "list", "l", false, "List available projects and exit")

	// Filtering
	rootCmd.Flags().StringVarP(&extensionsFlag, "extensions", "x", "", "Extension allow-list, comma-separated (default: swift,h,m)")
	viper.BindPFlag("extensions", rootCmd.Flags().Lookup("extensions"))
	rootCmd.Flags().StringVarP(&excludePatterns, "exclude", "e", "", "Exclude glob patterns, comma-separated (e.g. **/Pods/**)")
	viper.BindPFlag("exclude", rootCmd.Flags().Lookup("exclude"))
	viper.BindPFlag("default_excludes", rootCmd.Flags().Lookup("exclude"))
	rootCmd.Flags().Int64VarP(&maxSizeBytes, "max-size", "s", 0, "Maximum file size in bytes (0 for no limit)")
	viper.BindPFlag("max_size", rootCmd.Flags().Lookup("max-size"))
	rootCmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Maximum directory depth to traverse (0 for no limit)")
	viper.BindPFlag("max_depth", rootCmd.Flags().Lookup("max-depth"))
	rootCmd.Flags().BoolVarP(&showHidden, "hidden", "H", false, "Include hidden files and directories")
	viper.BindPFlag("hidden", rootCmd.Flags().Lookup("hidden"))
	rootCmd.Flags().BoolVar(&noIgnore, "no-ignore", false, "Don't respect the project's .gitignore")
	viper.BindPFlag("no_ignore", rootCmd.Flags().Lookup("no-ignore"))

	// Stripping
	rootCmd.Flags().BoolVar(&keepComments, "keep-comments", false, "Keep comments instead of stripping them")
	viper.BindPFlag("keep_comments", rootCmd.Flags().Lookup("keep-comments"))

	// Output
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "Directory the report is written to")
	viper.BindPFlag("output_dir", rootCmd.Flags().Lookup("output-dir"))
	rootCmd.Flags().StringVarP(&outputFile, "file", "f", "", "Report file name (default: <project>_code_review.txt)")
	viper.BindPFlag("file", rootCmd.Flags().Lookup("file"))
	rootCmd.Flags().BoolVarP(&printToStdout, "print", "p", false, "Print the report to stdout instead of writing a file")
	viper.BindPFlag("print", rootCmd.Flags().Lookup("print"))
	rootCmd.Flags().BoolVarP(&copyToClipboard, "clipboard", "c", false, "Copy the report to the clipboard")
	viper.BindPFlag("clipboard", rootCmd.Flags().Lookup("clipboard"))
	rootCmd.Flags().StringVar(&pdfOutputFile, "pdf", "", "Save the report as a syntax-highlighted PDF")
	viper.BindPFlag("pdf", rootCmd.Flags().Lookup("pdf"))

	// Processing
	rootCmd.Flags().IntVarP(&numThreads, "threads", "t", 0, "Number of threads for token counting (0 for auto)")
	viper.BindPFlag("threads", rootCmd.Flags().Lookup("threads"))

	// Token Counting
	rootCmd.Flags().BoolVar(&disableTokens, "no-tokens", false, "Disable token counting")
	viper.BindPFlag("no_tokens", rootCmd.Flags().Lookup("no-tokens"))
	rootCmd.Flags().StringVar(&tokenizerType, "tokenizer", "tiktoken", "Tokenizer to use: tiktoken or huggingface")
	viper.BindPFlag("tokenizer", rootCmd.Flags().Lookup("tokenizer"))
	rootCmd.Flags().StringVar(&tokenizerModel, "model", "", "Model name for tokenizer (e.g., gpt-4o, gpt2)")
	viper.BindPFlag("model", rootCmd.Flags().Lookup("model"))
	rootCmd.Flags().StringVar(&tokenizerFile, "tokenizer-file", "", "Path to local tokenizer file")
	viper.BindPFlag("tokenizer_file", rootCmd.Flags().Lookup("tokenizer-file"))

	// Reference Notes
	rootCmd.Flags().StringVar(&notesURL, "notes-url", "", "Fetch a reference page and append it to the report as notes")
	viper.BindPFlag("notes_url", rootCmd.Flags().Lookup("notes-url"))
	rootCmd.Flags().BoolVar(&traverseLinks, "traverse-links", false, "Follow links on the notes page")
	viper.BindPFlag("traverse_links", rootCmd.Flags().Lookup("traverse-links"))
	rootCmd.Flags().IntVar(&linkDepth, "link-depth", 1, "Maximum depth to traverse notes links")
	viper.BindPFlag("link_depth", rootCmd.Flags().Lookup("link-depth"))

	viper.SetDefault("base", ".")
	viper.SetDefault("output_dir", ".")
	viper.SetDefault("max_size", 0)
	viper.SetDefault("max_depth", 0)
	viper.SetDefault("hidden", false)
	viper.SetDefault("no_ignore", false)
	viper.SetDefault("keep_comments", false)
	viper.SetDefault("threads", 0)
	viper.SetDefault("no_tokens", false)
	viper.SetDefault("tokenizer", "tiktoken")
	viper.SetDefault("traverse_links", false)
	viper.SetDefault("link_depth", 1)
	viper.SetDefault("default_excludes", []string{
		"**/Pods/**",
		"**/Carthage/**",
		"**/DerivedData/**",
		"**/.build/**",
	})
}

// initConfig reads in config file and XCREVIEW_* environment variables.
func initConfig() {
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	viper.AddConfigPath(filepath.Join(home, ".config", "xcreview"))
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("XCREVIEW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
		}
	}

	applyConfigSettings()
}

// applyConfigSettings copies config-file and environment values back into the
// flag-bound globals for every flag the user did not set explicitly, so the
// flag > env > config > default layering holds for all settings.
func applyConfigSettings() {
	fromConfig := func(flagName string, apply func()) {
		if !rootCmd.Flags().Changed(flagName) {
			apply()
		}
	}

	// The config's default_excludes provide the exclude default unless the
	// flag was set explicitly.
	fromConfig("exclude", func() { excludePatterns = strings.Join(viper.GetStringSlice("default_excludes"), ",") })

	fromConfig("base", func() { baseFolder = viper.GetString("base") })
	fromConfig("interactive", func() { interactiveMode = viper.GetBool("interactive") })
	fromConfig("extensions", func() { extensionsFlag = viper.GetString("extensions") })
	fromConfig("max-size", func() { maxSizeBytes = viper.GetInt64("max_size") })
	fromConfig("max-depth", func() { maxDepth = viper.GetInt("max_depth") })
	fromConfig("hidden", func() { showHidden = viper.GetBool("hidden") })
	fromConfig("no-ignore", func() { noIgnore = viper.GetBool("no_ignore") })
	fromConfig("keep-comments", func() { keepComments = viper.GetBool("keep_comments") })
	fromConfig("output-dir", func() { outputDir = viper.GetString("output_dir") })
	fromConfig("file", func() { outputFile = viper.GetString("file") })
	fromConfig("print", func() { printToStdout = viper.GetBool("print") })
	fromConfig("clipboard", func() { copyToClipboard = viper.GetBool("clipboard") })
	fromConfig("pdf", func() { pdfOutputFile = viper.GetString("pdf") })
	fromConfig("threads", func() { numThreads = viper.GetInt("threads") })
	fromConfig("no-tokens", func() { disableTokens = viper.GetBool("no_tokens") })
	fromConfig("tokenizer", func() { tokenizerType = viper.GetString("tokenizer") })
	fromConfig("model", func() { tokenizerModel = viper.GetString("model") })
	fromConfig("tokenizer-file", func() { tokenizerFile = viper.GetString("tokenizer_file") })
	fromConfig("notes-url", func() { notesURL = viper.GetString("notes_url") })
	fromConfig("traverse-links", func() { traverseLinks = viper.GetBool("traverse_links") })
	fromConfig("link-depth", func() { linkDepth = viper.GetInt("link_depth") })
}

// initSyntax loads the comment-syntax table, with the built-in profiles as
// fallback when the override file is unusable.
func initSyntax() {
	var err error
	syntaxTable, err = loadSyntaxTable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load syntax overrides: %v\n", err)
		fmt.Fprintln(os.Stderr, "Proceeding with built-in Swift/Objective-C profiles.")
		syntaxTable = defaultSyntaxTable()
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
