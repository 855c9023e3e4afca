// Package main provides the entry point for the ttspipe CLI application.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/dgnsrekt/ttspipe/tts"
	"github.com/dgnsrekt/ttspipe/tts/audio"
	"github.com/dgnsrekt/ttspipe/tts/engines/azure"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	voiceName  string
	outputPath string
	playAudio  bool
	workers    int
	chunkChars int
	format     string
	endpoint   string
	apiKey     string
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "ttspipe [FILE]",
		Short: "Convert text to speech from the CLI",
		Long: paragraph(
			fmt.Sprintf("\nConvert text files to %s with Azure OpenAI. Long texts are split on sentence boundaries and synthesized concurrently, then joined in order.", keyword("spoken audio")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

// sourceFromArg opens a readable text source. "-" means stdin.
func sourceFromArg(arg string) (io.ReadCloser, error) {
	if arg == "-" {
		return os.Stdin, nil
	}

	path, err := homedir.Expand(arg)
	if err != nil {
		return nil, fmt.Errorf("unable to expand path: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open file: %w", err)
	}
	return f, nil
}

func validateOptions(cmd *cobra.Command) error {
	debug = viper.GetBool("debug")

	// Playback needs raw PCM. Switch the format automatically unless the
	// user picked one explicitly.
	if playAudio && !cmd.Flags().Changed("format") {
		viper.Set("response_format", tts.FormatPCM)
	}
	if playAudio && cmd.Flags().Changed("format") && !strings.EqualFold(format, tts.FormatPCM) {
		return errors.New("--play requires --format pcm")
	}

	if playAudio && outputPath != "" {
		return errors.New("cannot use both --play and --output")
	}

	return nil
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to open file: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

func execute(cmd *cobra.Command, args []string) error {
	// if stdin is a pipe then use stdin for input. note that you can also
	// explicitly use a - to read from stdin.
	var reader io.ReadCloser
	if yes, err := stdinIsPipe(); err != nil {
		return err
	} else if yes {
		reader = os.Stdin
	} else if len(args) == 1 {
		src, err := sourceFromArg(args[0])
		if err != nil {
			return err
		}
		reader = src
	} else {
		return cmd.Help()
	}
	defer reader.Close() //nolint:errcheck

	b, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("unable to read from reader: %w", err)
	}

	cfg, err := tts.LoadConfigFromViper()
	if err != nil {
		return err
	}

	engine, err := azure.New(cfg.Endpoint, cfg.APIKey,
		azure.WithModel(cfg.Model),
		azure.WithResponseFormat(cfg.ResponseFormat),
		azure.WithTimeout(cfg.RequestTimeout),
	)
	if err != nil {
		return err
	}

	pipeline, err := tts.NewPipeline(cfg, engine, log.Default())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conv, err := pipeline.Convert(ctx, string(b), tts.Voice(cfg.Voice))
	if err != nil {
		return err
	}

	if failed := conv.Failed(); failed > 0 {
		log.Warn("some chunks failed to synthesize", "failed", failed, "total", len(conv.Chunks))
		for _, cerr := range conv.Errors() {
			log.Warn("chunk error", "error", cerr)
		}
	}

	if playAudio {
		return playConversion(ctx, conv)
	}
	return writeConversion(conv, cfg.ResponseFormat)
}

func playConversion(ctx context.Context, conv *tts.Conversion) error {
	player, err := audio.NewPlayer(audio.DefaultPlayerConfig())
	if err != nil {
		return err
	}
	return player.PlayAll(ctx, conv.Audio())
}

func writeConversion(conv *tts.Conversion, responseFormat string) error {
	combined := audio.Combine(conv.Audio())
	if len(combined) == 0 {
		return errors.New("no audio produced")
	}
	if len(conv.Chunks) > 1 && responseFormat != tts.FormatMP3 && responseFormat != tts.FormatPCM {
		log.Debug("audio segments joined byte-for-byte; container formats may need re-encoding", "format", responseFormat)
	}

	out := outputPath
	if out == "" {
		out = "speech." + responseFormat
	}
	out, err := homedir.Expand(out)
	if err != nil {
		return fmt.Errorf("unable to expand path: %w", err)
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("unable to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(out, combined, 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("unable to write output file: %w", err)
	}

	size := humanize.Bytes(uint64(len(combined)))
	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Printf("Wrote %s to %s\n", keyword(size), out)
	} else {
		fmt.Printf("Wrote %s to %s\n", size, out)
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.Flags().StringVarP(&voiceName, "voice", "v", "", "voice preset (alloy, echo, fable, onyx, nova, shimmer)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default speech.<format>)")
	rootCmd.Flags().BoolVar(&playAudio, "play", false, "play audio instead of writing a file")
	rootCmd.Flags().IntVar(&workers, "workers", 0, "concurrent synthesis requests")
	rootCmd.Flags().IntVar(&chunkChars, "max-chunk-chars", 0, "maximum characters per synthesis request")
	rootCmd.Flags().StringVarP(&format, "format", "f", "", "audio format (mp3, opus, aac, flac, wav, pcm)")
	rootCmd.Flags().StringVar(&endpoint, "endpoint", "", "Azure OpenAI speech URL")
	rootCmd.Flags().StringVar(&apiKey, "api-key", "", "API key for the endpoint")

	// Config bindings
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("voice", rootCmd.Flags().Lookup("voice"))
	_ = viper.BindPFlag("max_workers", rootCmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("max_chunk_chars", rootCmd.Flags().Lookup("max-chunk-chars"))
	_ = viper.BindPFlag("response_format", rootCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("endpoint", rootCmd.Flags().Lookup("endpoint"))
	_ = viper.BindPFlag("api_key", rootCmd.Flags().Lookup("api-key"))

	viper.SetDefault("voice", string(tts.DefaultVoice))
	viper.SetDefault("response_format", tts.FormatMP3)
	viper.SetDefault("max_workers", tts.DefaultMaxWorkers)
	viper.SetDefault("max_chunk_chars", 4000)
	viper.SetDefault("request_timeout", "30s")

	rootCmd.AddCommand(configCmd, manCmd, serveCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "ttspipe")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "ttspipe")}, dirs...)
	}

	if c := os.Getenv("TTSPIPE_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("ttspipe")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("ttspipe")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "ttspipe.yml")
	}
}
